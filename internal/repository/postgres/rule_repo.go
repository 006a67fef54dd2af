package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"freightiq/internal/domain"
	"freightiq/internal/port"
)

type ruleRepo struct {
	db *sqlx.DB
}

// NewRuleRepo creates a new PostgreSQL-backed RuleStore.
func NewRuleRepo(db *sqlx.DB) port.RuleStore {
	return &ruleRepo{db: db}
}

func (r *ruleRepo) GetActive(ctx context.Context, forwarderID uuid.UUID, fieldName string) (*domain.ExtractionRule, error) {
	var rule domain.ExtractionRule
	err := r.db.GetContext(ctx, &rule,
		`SELECT * FROM extraction_rules
		 WHERE forwarder_id = $1 AND field_name = $2 AND is_active = TRUE`,
		forwarderID, fieldName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ruleRepo.GetActive: %w", err)
	}
	return &rule, nil
}

// Upsert replaces the active rule for the (forwarder, field) pair, bumping
// the version so downstream caches can invalidate on change.
func (r *ruleRepo) Upsert(ctx context.Context, rule *domain.ExtractionRule) error {
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `INSERT INTO extraction_rules (
		id, forwarder_id, field_name, rule_type, pattern,
		priority, version, is_active, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, 1, TRUE, $7, $8)
	ON CONFLICT (forwarder_id, field_name) DO UPDATE SET
		rule_type = EXCLUDED.rule_type,
		pattern = EXCLUDED.pattern,
		priority = EXCLUDED.priority,
		version = extraction_rules.version + 1,
		is_active = TRUE,
		updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.ForwarderID, rule.FieldName, rule.RuleType, rule.Pattern,
		rule.Priority, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ruleRepo.Upsert: %w", err)
	}
	return nil
}
