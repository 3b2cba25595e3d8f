package repository

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error)
	FindAll(ctx context.Context) ([]*entity.Equipment, error)

	// BookedQuantityTx sums the quantities already reserved against CONFIRMED
	// bookings that overlap the given time range. Runs on the supplied Querier
	// so it can execute inside the reservation lock.
	BookedQuantityTx(ctx context.Context, q database.Querier, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error)
	BookedQuantity(ctx context.Context, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error)
}

type equipmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEquipmentRepository(db database.PgxIface, log *zap.Logger) EquipmentRepository {
	return &equipmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "equipment")),
	}
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error) {
	query := `
		SELECT id, name, equipment_type, total_quantity, created_at, updated_at
		FROM equipment
		WHERE id = $1
	`

	var eq entity.Equipment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&eq.ID,
		&eq.Name,
		&eq.EquipmentType,
		&eq.TotalQuantity,
		&eq.CreatedAt,
		&eq.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find equipment by ID",
			zap.Error(err),
			zap.String("equipment_id", id.String()),
		)
		return nil, fmt.Errorf("find equipment by ID %s: %w", id.String(), err)
	}

	return &eq, nil
}

func (r *equipmentRepository) FindAll(ctx context.Context) ([]*entity.Equipment, error) {
	query := `
		SELECT id, name, equipment_type, total_quantity, created_at, updated_at
		FROM equipment
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find equipment", zap.Error(err))
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	defer rows.Close()

	var items []*entity.Equipment
	for rows.Next() {
		var eq entity.Equipment
		err := rows.Scan(
			&eq.ID,
			&eq.Name,
			&eq.EquipmentType,
			&eq.TotalQuantity,
			&eq.CreatedAt,
			&eq.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan equipment row", zap.Error(err))
			return nil, fmt.Errorf("scan equipment row: %w", err)
		}
		items = append(items, &eq)
	}

	return items, nil
}

func (r *equipmentRepository) BookedQuantity(ctx context.Context, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error) {
	return r.BookedQuantityTx(ctx, r.db, equipmentID, date, startMinute, endMinute)
}

func (r *equipmentRepository) BookedQuantityTx(ctx context.Context, q database.Querier, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error) {
	query := `
		SELECT COALESCE(SUM(be.quantity), 0)
		FROM booking_equipment be
		JOIN bookings b ON b.id = be.booking_id
		WHERE be.equipment_id = $1
		  AND b.date = $2
		  AND b.start_minute < $4
		  AND b.end_minute > $3
		  AND b.status = 'CONFIRMED'
	`

	var booked int
	err := q.QueryRow(ctx, query, equipmentID, date, startMinute, endMinute).Scan(&booked)
	if err != nil {
		r.log.Error("Failed to sum booked equipment quantity",
			zap.Error(err),
			zap.String("equipment_id", equipmentID.String()),
		)
		return 0, fmt.Errorf("sum booked quantity for equipment %s: %w", equipmentID.String(), err)
	}

	return booked, nil
}
