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

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *entity.PricingRule) error
	Update(ctx context.Context, rule *entity.PricingRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
	FindAll(ctx context.Context) ([]*entity.PricingRule, error)
	FindEnabled(ctx context.Context) ([]*entity.PricingRule, error)
}

type pricingRuleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRuleRepository(db database.PgxIface, log *zap.Logger) PricingRuleRepository {
	return &pricingRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_rule")),
	}
}

const pricingRuleColumns = `id, name, kind, category, magnitude, priority, is_enabled,
		start_minute, end_minute, applies_to_days, created_at, updated_at`

func (r *pricingRuleRepository) Create(ctx context.Context, rule *entity.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, name, kind, category, magnitude, priority, is_enabled,
		                           start_minute, end_minute, applies_to_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Kind,
		rule.Category,
		rule.Magnitude,
		rule.Priority,
		rule.IsEnabled,
		rule.StartMinute,
		rule.EndMinute,
		daysToInt32(rule.AppliesToDays),
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create pricing rule",
			zap.Error(err),
			zap.String("name", rule.Name),
		)
		return fmt.Errorf("create pricing rule %s: %w", rule.Name, err)
	}

	return nil
}

func (r *pricingRuleRepository) Update(ctx context.Context, rule *entity.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET name = $2, kind = $3, category = $4, magnitude = $5, priority = $6,
		    is_enabled = $7, start_minute = $8, end_minute = $9, applies_to_days = $10,
		    updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Kind,
		rule.Category,
		rule.Magnitude,
		rule.Priority,
		rule.IsEnabled,
		rule.StartMinute,
		rule.EndMinute,
		daysToInt32(rule.AppliesToDays),
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update pricing rule",
			zap.Error(err),
			zap.String("rule_id", rule.ID.String()),
		)
		return fmt.Errorf("update pricing rule %s: %w", rule.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s not found", rule.ID.String())
	}

	return nil
}

func (r *pricingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM pricing_rules WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete pricing rule",
			zap.Error(err),
			zap.String("rule_id", id.String()),
		)
		return fmt.Errorf("delete pricing rule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s not found", id.String())
	}

	return nil
}

func (r *pricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = $1`

	rule, err := scanPricingRule(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pricing rule by ID",
			zap.Error(err),
			zap.String("rule_id", id.String()),
		)
		return nil, fmt.Errorf("find pricing rule by ID %s: %w", id.String(), err)
	}

	return rule, nil
}

func (r *pricingRuleRepository) FindAll(ctx context.Context) ([]*entity.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules ORDER BY priority, id`
	return r.queryRules(ctx, query)
}

func (r *pricingRuleRepository) FindEnabled(ctx context.Context) ([]*entity.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE is_enabled = TRUE ORDER BY priority, id`
	return r.queryRules(ctx, query)
}

func (r *pricingRuleRepository) queryRules(ctx context.Context, query string) ([]*entity.PricingRule, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query pricing rules", zap.Error(err))
		return nil, fmt.Errorf("query pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			r.log.Error("Failed to scan pricing rule row", zap.Error(err))
			return nil, fmt.Errorf("scan pricing rule row: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func scanPricingRule(row pgx.Row) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	var days []int32
	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Kind,
		&rule.Category,
		&rule.Magnitude,
		&rule.Priority,
		&rule.IsEnabled,
		&rule.StartMinute,
		&rule.EndMinute,
		&days,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.AppliesToDays = make([]int, len(days))
	for i, d := range days {
		rule.AppliesToDays[i] = int(d)
	}
	return &rule, nil
}

func daysToInt32(days []int) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}
