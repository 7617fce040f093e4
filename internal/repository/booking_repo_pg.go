package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
)

// BuildBookingFunc receives the car's active bookings inside the insert
// transaction and returns the booking to store, or an error to abort.
type BuildBookingFunc func(active []domain.Booking) (*domain.Booking, error)

type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, carID int64, build BuildBookingFunc) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActiveByCar(ctx context.Context, carID int64) ([]domain.Booking, error)
	ListByCar(ctx context.Context, carID int64) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListPendingByDealer(ctx context.Context, dealerID int64) ([]domain.Booking, error)
	ListActiveByDealerStartingBetween(ctx context.Context, dealerID int64, from, to domain.Date) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error)
	ListPendingStartingBefore(ctx context.Context, day domain.Date) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, car_id, user_id, start_date, end_date, status, total_price_cents, currency, insurance_selected, insurance_fee_cents, created_at`

var activeStatuses = []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)}

// CreateIfAvailable runs check-then-insert in one serializable transaction
// holding a row lock on the car, so two overlapping requests for the same car
// cannot both pass the overlap check.
func (r *PGBookingRepository) CreateIfAvailable(ctx context.Context, carID int64, build BuildBookingFunc) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id=$1 FOR UPDATE`, carID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, wrapTxErr(err)
	}

	rows, err := tx.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE car_id=$1 AND status = ANY($2) ORDER BY start_date`, carID, activeStatuses)
	if err != nil {
		return nil, wrapTxErr(err)
	}
	active, err := collectBookings(rows)
	if err != nil {
		return nil, wrapTxErr(err)
	}

	booking, err := build(active)
	if err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, car_id, user_id, start_date, end_date, status, total_price_cents, currency, insurance_selected, insurance_fee_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		booking.Reference, carID, booking.UserID, booking.StartDate.Time(), booking.EndDate.Time(), booking.Status,
		int64(booking.TotalPrice), booking.Currency, booking.InsuranceSelected, moneyPtr(booking.InsuranceFee)).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return nil, wrapTxErr(err)
	}
	booking.CarID = carID

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxErr(err)
	}
	return booking, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListActiveByCar(ctx context.Context, carID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE car_id=$1 AND status = ANY($2) ORDER BY start_date, id`, carID, activeStatuses)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByCar(ctx context.Context, carID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE car_id=$1 ORDER BY start_date DESC, created_at DESC`, carID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY start_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListPendingByDealer(ctx context.Context, dealerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.reference, b.car_id, b.user_id, b.start_date, b.end_date, b.status, b.total_price_cents, b.currency, b.insurance_selected, b.insurance_fee_cents, b.created_at
		FROM bookings b JOIN cars c ON c.id = b.car_id
		WHERE c.dealer_id=$1 AND b.status=$2
		ORDER BY b.start_date, b.created_at`, dealerID, domain.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListActiveByDealerStartingBetween returns active bookings with from <= start_date < to.
func (r *PGBookingRepository) ListActiveByDealerStartingBetween(ctx context.Context, dealerID int64, from, to domain.Date) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.reference, b.car_id, b.user_id, b.start_date, b.end_date, b.status, b.total_price_cents, b.currency, b.insurance_selected, b.insurance_fee_cents, b.created_at
		FROM bookings b JOIN cars c ON c.id = b.car_id
		WHERE c.dealer_id=$1 AND b.status = ANY($2) AND b.start_date >= $3 AND b.start_date < $4
		ORDER BY b.start_date, b.id`, dealerID, activeStatuses, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// UpdateStatus moves a booking from one status to another. It returns
// ErrStatusChanged when the stored status is no longer from.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1 WHERE id=$2 AND status=$3 RETURNING `+bookingColumns, to, id, from)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusChanged
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListPendingStartingBefore(ctx context.Context, day domain.Date) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND start_date < $2 ORDER BY start_date, id`,
		domain.BookingStatusPending, day.Time())
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b            domain.Booking
		start, end   time.Time
		total        int64
		insuranceFee *int64
	)
	if err := row.Scan(&b.ID, &b.Reference, &b.CarID, &b.UserID, &start, &end, &b.Status, &total, &b.Currency, &b.InsuranceSelected, &insuranceFee, &b.CreatedAt); err != nil {
		return domain.Booking{}, err
	}
	b.StartDate = domain.DateOf(start)
	b.EndDate = domain.DateOf(end)
	b.TotalPrice = domain.Money(total)
	if insuranceFee != nil {
		fee := domain.Money(*insuranceFee)
		b.InsuranceFee = &fee
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func moneyPtr(m *domain.Money) *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}

func wrapTxErr(err error) error {
	if isConflict(err) {
		return fmt.Errorf("%w: %v", ErrTxConflict, err)
	}
	return err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
