package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
)

type DealerRepository interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Dealer, error)
}

type PGDealerRepository struct {
	db DB
}

func NewDealerRepository(db DB) DealerRepository {
	return &PGDealerRepository{db: db}
}

// GetActiveByUserID returns domain.ErrUnauthorized when the user has no active
// dealer profile.
func (r *PGDealerRepository) GetActiveByUserID(ctx context.Context, userID int64) (*domain.Dealer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, name, email, phone, active FROM dealers WHERE user_id=$1 AND active`, userID)
	var d domain.Dealer
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Email, &d.Phone, &d.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return &d, nil
}

var _ DealerRepository = (*PGDealerRepository)(nil)
