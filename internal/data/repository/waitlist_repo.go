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

// WaitlistRepository stores per-slot FIFO queues. Queue order is
// (created_at, seq) ascending; seq is assigned by the store on insert and
// breaks created_at ties. Mutations that race with the arbiter run on a
// Querier inside the court lock.
type WaitlistRepository interface {
	CreateTx(ctx context.Context, q database.Querier, entry *entity.WaitlistEntry) error
	FindLiveByUserAndSlotTx(ctx context.Context, q database.Querier, userID uuid.UUID, slot entity.SlotKey) (*entity.WaitlistEntry, error)
	CountWaitingAheadTx(ctx context.Context, q database.Querier, entry *entity.WaitlistEntry) (int, error)

	// FindNextWaitingTx returns the queue head: the WAITING entry with the
	// smallest (created_at, seq). Nil when the queue is empty.
	FindNextWaitingTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error)

	// MarkNotifiedTx transitions WAITING -> NOTIFIED; returns false when the
	// entry was no longer WAITING.
	MarkNotifiedTx(ctx context.Context, q database.Querier, id uuid.UUID, notifiedAt time.Time) (bool, error)

	// MarkExpiredTx transitions NOTIFIED -> EXPIRED; returns false when the
	// entry was no longer NOTIFIED. Used by the sweep; the status guard makes
	// repeated sweeps idempotent.
	MarkExpiredTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)

	DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.WaitlistEntry, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WaitlistEntry, error)
	CountWaitingAhead(ctx context.Context, entry *entity.WaitlistEntry) (int, error)

	// FindStaleNotified lists NOTIFIED entries whose notified_at is before
	// the cutoff, oldest first.
	FindStaleNotified(ctx context.Context, cutoff time.Time) ([]*entity.WaitlistEntry, error)
}

type waitlistRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaitlistRepository(db database.PgxIface, log *zap.Logger) WaitlistRepository {
	return &waitlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "waitlist")),
	}
}

const waitlistColumns = `id, seq, user_id, court_id, date, start_minute, end_minute, status, notified_at, created_at`

func (r *waitlistRepository) CreateTx(ctx context.Context, q database.Querier, entry *entity.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (id, user_id, court_id, date, start_minute, end_minute, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.CourtID,
		entry.Date,
		entry.StartMinute,
		entry.EndMinute,
		entry.Status,
		entry.CreatedAt,
	).Scan(&entry.Seq)

	if err != nil {
		r.log.Error("Failed to create waitlist entry",
			zap.Error(err),
			zap.String("user_id", entry.UserID.String()),
		)
		return fmt.Errorf("create waitlist entry %s: %w", entry.ID.String(), err)
	}

	return nil
}

func (r *waitlistRepository) FindLiveByUserAndSlotTx(ctx context.Context, q database.Querier, userID uuid.UUID, slot entity.SlotKey) (*entity.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE user_id = $1 AND court_id = $2 AND date = $3
		  AND start_minute = $4 AND end_minute = $5
		  AND status IN ('WAITING', 'NOTIFIED')
	`

	entry, err := scanWaitlistEntry(q.QueryRow(ctx, query,
		userID, slot.CourtID, slot.Date, slot.StartMinute, slot.EndMinute))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find live waitlist entry",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find live waitlist entry for user %s: %w", userID.String(), err)
	}

	return entry, nil
}

func (r *waitlistRepository) CountWaitingAheadTx(ctx context.Context, q database.Querier, entry *entity.WaitlistEntry) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM waitlist_entries
		WHERE court_id = $1 AND date = $2 AND start_minute = $3 AND end_minute = $4
		  AND status = 'WAITING'
		  AND (created_at, seq) < ($5, $6)
	`

	var ahead int
	err := q.QueryRow(ctx, query,
		entry.CourtID, entry.Date, entry.StartMinute, entry.EndMinute,
		entry.CreatedAt, entry.Seq,
	).Scan(&ahead)
	if err != nil {
		r.log.Error("Failed to count waiting entries ahead", zap.Error(err))
		return 0, fmt.Errorf("count waiting entries ahead of %s: %w", entry.ID.String(), err)
	}

	return ahead, nil
}

func (r *waitlistRepository) CountWaitingAhead(ctx context.Context, entry *entity.WaitlistEntry) (int, error) {
	return r.CountWaitingAheadTx(ctx, r.db, entry)
}

func (r *waitlistRepository) FindNextWaitingTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE court_id = $1 AND date = $2 AND start_minute = $3 AND end_minute = $4
		  AND status = 'WAITING'
		ORDER BY created_at, seq
		LIMIT 1
	`

	entry, err := scanWaitlistEntry(q.QueryRow(ctx, query,
		slot.CourtID, slot.Date, slot.StartMinute, slot.EndMinute))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find next waiting entry",
			zap.Error(err),
			zap.String("slot", slot.String()),
		)
		return nil, fmt.Errorf("find next waiting entry for %s: %w", slot.String(), err)
	}

	return entry, nil
}

func (r *waitlistRepository) MarkNotifiedTx(ctx context.Context, q database.Querier, id uuid.UUID, notifiedAt time.Time) (bool, error) {
	query := `
		UPDATE waitlist_entries
		SET status = 'NOTIFIED', notified_at = $2
		WHERE id = $1 AND status = 'WAITING'
	`

	result, err := q.Exec(ctx, query, id, notifiedAt)
	if err != nil {
		r.log.Error("Failed to mark waitlist entry notified",
			zap.Error(err),
			zap.String("entry_id", id.String()),
		)
		return false, fmt.Errorf("mark waitlist entry %s notified: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *waitlistRepository) MarkExpiredTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	query := `
		UPDATE waitlist_entries
		SET status = 'EXPIRED'
		WHERE id = $1 AND status = 'NOTIFIED'
	`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark waitlist entry expired",
			zap.Error(err),
			zap.String("entry_id", id.String()),
		)
		return false, fmt.Errorf("mark waitlist entry %s expired: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *waitlistRepository) DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `DELETE FROM waitlist_entries WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete waitlist entry",
			zap.Error(err),
			zap.String("entry_id", id.String()),
		)
		return fmt.Errorf("delete waitlist entry %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("waitlist entry %s not found", id.String())
	}

	return nil
}

func (r *waitlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE id = $1`

	entry, err := scanWaitlistEntry(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find waitlist entry by ID",
			zap.Error(err),
			zap.String("entry_id", id.String()),
		)
		return nil, fmt.Errorf("find waitlist entry by ID %s: %w", id.String(), err)
	}

	return entry, nil
}

func (r *waitlistRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE user_id = $1 AND status IN ('WAITING', 'NOTIFIED')
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find active waitlist entries",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active waitlist entries for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return scanWaitlistRows(rows)
}

func (r *waitlistRepository) FindStaleNotified(ctx context.Context, cutoff time.Time) ([]*entity.WaitlistEntry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE status = 'NOTIFIED' AND notified_at < $1
		ORDER BY notified_at
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to find stale notified entries", zap.Error(err))
		return nil, fmt.Errorf("find stale notified entries: %w", err)
	}
	defer rows.Close()

	return scanWaitlistRows(rows)
}

func scanWaitlistRows(rows pgx.Rows) ([]*entity.WaitlistEntry, error) {
	var entries []*entity.WaitlistEntry
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scanWaitlistEntry(row pgx.Row) (*entity.WaitlistEntry, error) {
	var entry entity.WaitlistEntry
	err := row.Scan(
		&entry.ID,
		&entry.Seq,
		&entry.UserID,
		&entry.CourtID,
		&entry.Date,
		&entry.StartMinute,
		&entry.EndMinute,
		&entry.Status,
		&entry.NotifiedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
