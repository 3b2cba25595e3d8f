package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CoachRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coach, error)
	FindAllActive(ctx context.Context) ([]*entity.Coach, error)
	FindAvailability(ctx context.Context, coachID uuid.UUID) ([]*entity.CoachAvailability, error)
	FindAvailabilityForDay(ctx context.Context, dayOfWeek int) ([]*entity.CoachAvailability, error)
}

type coachRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCoachRepository(db database.PgxIface, log *zap.Logger) CoachRepository {
	return &coachRepository{
		db:  db,
		log: log.With(zap.String("repository", "coach")),
	}
}

func (r *coachRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coach, error) {
	query := `
		SELECT id, name, hourly_fee, is_active, created_at, updated_at
		FROM coaches
		WHERE id = $1
	`

	var coach entity.Coach
	err := r.db.QueryRow(ctx, query, id).Scan(
		&coach.ID,
		&coach.Name,
		&coach.HourlyFee,
		&coach.IsActive,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coach by ID",
			zap.Error(err),
			zap.String("coach_id", id.String()),
		)
		return nil, fmt.Errorf("find coach by ID %s: %w", id.String(), err)
	}

	return &coach, nil
}

func (r *coachRepository) FindAllActive(ctx context.Context) ([]*entity.Coach, error) {
	query := `
		SELECT id, name, hourly_fee, is_active, created_at, updated_at
		FROM coaches
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active coaches", zap.Error(err))
		return nil, fmt.Errorf("find active coaches: %w", err)
	}
	defer rows.Close()

	var coaches []*entity.Coach
	for rows.Next() {
		var coach entity.Coach
		err := rows.Scan(
			&coach.ID,
			&coach.Name,
			&coach.HourlyFee,
			&coach.IsActive,
			&coach.CreatedAt,
			&coach.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan coach row", zap.Error(err))
			return nil, fmt.Errorf("scan coach row: %w", err)
		}
		coaches = append(coaches, &coach)
	}

	return coaches, nil
}

func (r *coachRepository) FindAvailability(ctx context.Context, coachID uuid.UUID) ([]*entity.CoachAvailability, error) {
	query := `
		SELECT id, coach_id, day_of_week, start_minute, end_minute, created_at
		FROM coach_availability
		WHERE coach_id = $1
		ORDER BY day_of_week, start_minute
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		r.log.Error("Failed to find coach availability",
			zap.Error(err),
			zap.String("coach_id", coachID.String()),
		)
		return nil, fmt.Errorf("find availability for coach %s: %w", coachID.String(), err)
	}
	defer rows.Close()

	return scanAvailabilityRows(rows)
}

func (r *coachRepository) FindAvailabilityForDay(ctx context.Context, dayOfWeek int) ([]*entity.CoachAvailability, error) {
	query := `
		SELECT ca.id, ca.coach_id, ca.day_of_week, ca.start_minute, ca.end_minute, ca.created_at
		FROM coach_availability ca
		JOIN coaches c ON c.id = ca.coach_id
		WHERE ca.day_of_week = $1 AND c.is_active = TRUE
		ORDER BY ca.coach_id, ca.start_minute
	`

	rows, err := r.db.Query(ctx, query, dayOfWeek)
	if err != nil {
		r.log.Error("Failed to find availability for day",
			zap.Error(err),
			zap.Int("day_of_week", dayOfWeek),
		)
		return nil, fmt.Errorf("find availability for day %d: %w", dayOfWeek, err)
	}
	defer rows.Close()

	return scanAvailabilityRows(rows)
}

func scanAvailabilityRows(rows pgx.Rows) ([]*entity.CoachAvailability, error) {
	var windows []*entity.CoachAvailability
	for rows.Next() {
		var w entity.CoachAvailability
		err := rows.Scan(
			&w.ID,
			&w.CoachID,
			&w.DayOfWeek,
			&w.StartMinute,
			&w.EndMinute,
			&w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan coach availability row: %w", err)
		}
		windows = append(windows, &w)
	}
	return windows, nil
}
