package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, carID int64) (bool, error)
	ListCarsByUser(ctx context.Context, userID int64) ([]domain.Car, error)
}

type PGFavoriteRepository struct {
	db DB
}

func NewFavoriteRepository(db DB) FavoriteRepository {
	return &PGFavoriteRepository{db: db}
}

// Toggle removes the favorite if present, otherwise adds it, and reports
// whether the car is a favorite afterwards.
func (r *PGFavoriteRepository) Toggle(ctx context.Context, userID, carID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND car_id=$2`, userID, carID)
	if err != nil {
		return false, err
	}
	isFavorite := res.RowsAffected() == 0
	if isFavorite {
		if _, err := tx.Exec(ctx, `INSERT INTO favorites (user_id, car_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, carID); err != nil {
			return false, err
		}
	}
	return isFavorite, tx.Commit(ctx)
}

func (r *PGFavoriteRepository) ListCarsByUser(ctx context.Context, userID int64) ([]domain.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.dealer_id, c.title, c.car_type, c.make, c.model, COALESCE(c.year, 0), c.transmission, COALESCE(c.seats, 0), c.description, c.price_per_day_cents, c.currency, c.available, c.location_city, c.location_country, c.created_at
		FROM favorites f JOIN cars c ON c.id = f.car_id
		WHERE f.user_id=$1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

var _ FavoriteRepository = (*PGFavoriteRepository)(nil)
