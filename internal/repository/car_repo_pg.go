package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CarRepository interface {
	ListAvailable(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	ListByDealer(ctx context.Context, dealerID int64) ([]domain.Car, error)
	StatsByDealer(ctx context.Context, dealerID int64) (map[int64]domain.CarStats, error)
	UpdatePrice(ctx context.Context, id int64, price domain.Money) error
	Create(ctx context.Context, car *domain.Car) error
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int64) error
}

type PGCarRepository struct {
	db DB
}

func NewCarRepository(db DB) CarRepository {
	return &PGCarRepository{db: db}
}

const carColumns = `id, dealer_id, title, car_type, make, model, COALESCE(year, 0), transmission, COALESCE(seats, 0), description, price_per_day_cents, currency, available, location_city, location_country, created_at`

func (r *PGCarRepository) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM cars WHERE available ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

func (r *PGCarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	row := r.db.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id=$1`, id)
	c, err := scanCar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCarRepository) ListByDealer(ctx context.Context, dealerID int64) ([]domain.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM cars WHERE dealer_id=$1 ORDER BY id DESC`, dealerID)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

func (r *PGCarRepository) StatsByDealer(ctx context.Context, dealerID int64) (map[int64]domain.CarStats, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, COUNT(b.id), COALESCE(SUM(b.total_price_cents), 0)::BIGINT
		FROM cars c LEFT JOIN bookings b ON b.car_id = c.id AND b.status = $2
		WHERE c.dealer_id = $1
		GROUP BY c.id`, dealerID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[int64]domain.CarStats)
	for rows.Next() {
		var (
			carID, revenue int64
			count          int
		)
		if err := rows.Scan(&carID, &count, &revenue); err != nil {
			return nil, err
		}
		stats[carID] = domain.CarStats{ConfirmedBookings: count, ConfirmedRevenue: domain.Money(revenue)}
	}
	return stats, rows.Err()
}

func (r *PGCarRepository) UpdatePrice(ctx context.Context, id int64, price domain.Money) error {
	res, err := r.db.Exec(ctx, `UPDATE cars SET price_per_day_cents=$1 WHERE id=$2`, int64(price), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// Create inserts the listing and fills in its id and created_at.
func (r *PGCarRepository) Create(ctx context.Context, car *domain.Car) error {
	return r.db.QueryRow(ctx, `INSERT INTO cars (dealer_id, title, car_type, make, model, year, transmission, seats, description, price_per_day_cents, currency, available, location_city, location_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		car.DealerID, car.Title, car.CarType, car.Make, car.Model, nullIfZero(car.Year), car.Transmission, nullIfZero(car.Seats),
		car.Description, int64(car.PricePerDay), car.Currency, car.Available, car.LocationCity, car.LocationCountry).
		Scan(&car.ID, &car.CreatedAt)
}

func (r *PGCarRepository) Update(ctx context.Context, car *domain.Car) error {
	res, err := r.db.Exec(ctx, `UPDATE cars SET title=$1, car_type=$2, make=$3, model=$4, year=$5, transmission=$6, seats=$7, description=$8,
		price_per_day_cents=$9, currency=$10, available=$11, location_city=$12, location_country=$13
		WHERE id=$14`,
		car.Title, car.CarType, car.Make, car.Model, nullIfZero(car.Year), car.Transmission, nullIfZero(car.Seats), car.Description,
		int64(car.PricePerDay), car.Currency, car.Available, car.LocationCity, car.LocationCountry, car.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// Delete removes the car together with its bookings and favorites.
func (r *PGCarRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func nullIfZero(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func scanCar(row pgx.Row) (domain.Car, error) {
	var (
		c     domain.Car
		price int64
	)
	if err := row.Scan(&c.ID, &c.DealerID, &c.Title, &c.CarType, &c.Make, &c.Model, &c.Year, &c.Transmission, &c.Seats, &c.Description, &price, &c.Currency, &c.Available, &c.LocationCity, &c.LocationCountry, &c.CreatedAt); err != nil {
		return domain.Car{}, err
	}
	c.PricePerDay = domain.Money(price)
	return c, nil
}

func collectCars(rows pgx.Rows) ([]domain.Car, error) {
	defer rows.Close()

	cars := make([]domain.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

var _ CarRepository = (*PGCarRepository)(nil)
