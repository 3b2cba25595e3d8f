package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingRepository is the durable ledger of court allocations. Bookings are
// never physically deleted; cancellation flips status and keeps the row.
type BookingRepository interface {
	// CreateTx inserts the booking and its equipment lines on the supplied
	// Querier so the write commits atomically with the availability check.
	CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error

	// FindConfirmedOverlapTx returns CONFIRMED bookings on the court whose
	// time range overlaps [startMinute, endMinute) on the date.
	FindConfirmedOverlapTx(ctx context.Context, q database.Querier, courtID uuid.UUID, date time.Time, startMinute, endMinute int) ([]*entity.Booking, error)

	FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error)
	UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindEquipmentByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error)

	// FindBookedCourtIDs lists courts holding a CONFIRMED booking overlapping
	// the range, for availability listings.
	FindBookedCourtIDs(ctx context.Context, date time.Time, startMinute, endMinute int) ([]uuid.UUID, error)

	// CoachIsBookedTx reports whether the coach already has a CONFIRMED
	// booking overlapping the range.
	CoachIsBookedTx(ctx context.Context, q database.Querier, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error)
	CoachIsBooked(ctx context.Context, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, court_id, date, start_minute, end_minute, coach_id,
		base_price, total_price, price_breakdown, status, created_at, updated_at`

func (r *bookingRepository) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	breakdown, err := json.Marshal(booking.PriceBreakdown)
	if err != nil {
		return fmt.Errorf("marshal price breakdown: %w", err)
	}

	query := `
		INSERT INTO bookings (id, user_id, court_id, date, start_minute, end_minute, coach_id,
		                      base_price, total_price, price_breakdown, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = q.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.CourtID,
		booking.Date,
		booking.StartMinute,
		booking.EndMinute,
		booking.CoachID,
		booking.BasePrice,
		booking.TotalPrice,
		breakdown,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	for _, item := range booking.Equipment {
		_, err := q.Exec(ctx, `
			INSERT INTO booking_equipment (id, booking_id, equipment_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`,
			item.ID,
			booking.ID,
			item.EquipmentID,
			item.Quantity,
			item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create booking equipment",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("equipment_id", item.EquipmentID.String()),
			)
			return fmt.Errorf("create booking equipment for %s: %w", booking.ID.String(), err)
		}
	}

	return nil
}

func (r *bookingRepository) FindConfirmedOverlapTx(ctx context.Context, q database.Querier, courtID uuid.UUID, date time.Time, startMinute, endMinute int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1
		  AND date = $2
		  AND start_minute < $4
		  AND end_minute > $3
		  AND status = 'CONFIRMED'
		ORDER BY start_minute
	`

	rows, err := q.Query(ctx, query, courtID, date, startMinute, endMinute)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for court %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	return scanBookingRows(rows)
}

func (r *bookingRepository) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return scanBookingRows(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindEquipmentByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error) {
	query := `
		SELECT id, booking_id, equipment_id, quantity, created_at
		FROM booking_equipment
		WHERE booking_id = $1
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking equipment",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find equipment for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingEquipment
	for rows.Next() {
		var item entity.BookingEquipment
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.EquipmentID,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking equipment row", zap.Error(err))
			return nil, fmt.Errorf("scan booking equipment row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *bookingRepository) FindBookedCourtIDs(ctx context.Context, date time.Time, startMinute, endMinute int) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT court_id
		FROM bookings
		WHERE date = $1
		  AND start_minute < $3
		  AND end_minute > $2
		  AND status = 'CONFIRMED'
	`

	rows, err := r.db.Query(ctx, query, date, startMinute, endMinute)
	if err != nil {
		r.log.Error("Failed to find booked court IDs", zap.Error(err))
		return nil, fmt.Errorf("find booked court IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan court ID", zap.Error(err))
			return nil, fmt.Errorf("scan court ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *bookingRepository) CoachIsBooked(ctx context.Context, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error) {
	return r.CoachIsBookedTx(ctx, r.db, coachID, date, startMinute, endMinute)
}

func (r *bookingRepository) CoachIsBookedTx(ctx context.Context, q database.Querier, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE coach_id = $1
			  AND date = $2
			  AND start_minute < $4
			  AND end_minute > $3
			  AND status = 'CONFIRMED'
		)
	`

	var booked bool
	err := q.QueryRow(ctx, query, coachID, date, startMinute, endMinute).Scan(&booked)
	if err != nil {
		r.log.Error("Failed to check coach bookings",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return false, fmt.Errorf("check bookings for coach %s: %w", coachID.String(), err)
	}

	return booked, nil
}

func scanBookingRows(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	var breakdown []byte
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CourtID,
		&booking.Date,
		&booking.StartMinute,
		&booking.EndMinute,
		&booking.CoachID,
		&booking.BasePrice,
		&booking.TotalPrice,
		&breakdown,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &booking.PriceBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal price breakdown: %w", err)
		}
	}
	return &booking, nil
}
