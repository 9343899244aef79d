package repository

import (
	"context"
	"errors"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LevelRuleRepository struct {
	db *pgxpool.Pool
}

func NewLevelRuleRepository(db *pgxpool.Pool) *LevelRuleRepository {
	return &LevelRuleRepository{db: db}
}

func (r *LevelRuleRepository) ViewerRules(ctx context.Context) ([]*domain.ViewerLevelRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, level, min_points, reward_coins, active
		FROM viewer_level_rules
		ORDER BY level ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanViewerRules(rows)
}

// ActiveViewerRulesTx loads the active rule set inside the operation's
// transaction so the evaluation sees the same snapshot it commits against.
func (r *LevelRuleRepository) ActiveViewerRulesTx(ctx context.Context, tx pgx.Tx) ([]*domain.ViewerLevelRule, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, level, min_points, reward_coins, active
		FROM viewer_level_rules
		WHERE active = TRUE
		ORDER BY level ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanViewerRules(rows)
}

// NextViewerRule returns the first active rule above the given level, or
// nil at the top of the ladder. Used by the progress endpoints.
func (r *LevelRuleRepository) NextViewerRule(ctx context.Context, level int) (*domain.ViewerLevelRule, error) {
	var rule domain.ViewerLevelRule
	err := r.db.QueryRow(ctx, `
		SELECT id, level, min_points, reward_coins, active
		FROM viewer_level_rules
		WHERE active = TRUE AND level > $1
		ORDER BY level ASC
		LIMIT 1
	`, level).Scan(&rule.ID, &rule.Level, &rule.MinPoints, &rule.RewardCoins, &rule.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *LevelRuleRepository) CreateViewerRule(ctx context.Context, rule *domain.ViewerLevelRule) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO viewer_level_rules (level, min_points, reward_coins, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, rule.Level, rule.MinPoints, rule.RewardCoins, rule.Active).Scan(&rule.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateLevel
	}
	return err
}

func (r *LevelRuleRepository) UpdateViewerRule(ctx context.Context, rule *domain.ViewerLevelRule) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE viewer_level_rules
		SET level = $1, min_points = $2, reward_coins = $3, active = $4
		WHERE id = $5
	`, rule.Level, rule.MinPoints, rule.RewardCoins, rule.Active, rule.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateLevel
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LevelRuleRepository) DeactivateViewerRule(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE viewer_level_rules SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveStreamerRulesTx loads the streamer's own active rules and the
// global fallback set (streamer_id NULL) in one pass, split for the caller.
func (r *LevelRuleRepository) ActiveStreamerRulesTx(ctx context.Context, tx pgx.Tx, streamerID int64) (scoped, global []*domain.StreamerLevelRule, err error) {
	rows, err := tx.Query(ctx, `
		SELECT id, COALESCE(streamer_id, 0), level, min_hours, active
		FROM streamer_level_rules
		WHERE active = TRUE AND (streamer_id = $1 OR streamer_id IS NULL)
		ORDER BY level ASC
	`, streamerID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rule domain.StreamerLevelRule
		if err := rows.Scan(&rule.ID, &rule.StreamerID, &rule.Level, &rule.MinHours, &rule.Active); err != nil {
			return nil, nil, err
		}
		if rule.StreamerID != 0 {
			scoped = append(scoped, &rule)
		} else {
			global = append(global, &rule)
		}
	}
	return scoped, global, rows.Err()
}

// NextStreamerRule prefers the streamer's own ladder and falls back to the
// global one only when the streamer has no rule above the given level.
func (r *LevelRuleRepository) NextStreamerRule(ctx context.Context, streamerID int64, level int) (*domain.StreamerLevelRule, error) {
	var rule domain.StreamerLevelRule
	err := r.db.QueryRow(ctx, `
		SELECT id, COALESCE(streamer_id, 0), level, min_hours, active
		FROM streamer_level_rules
		WHERE active = TRUE AND streamer_id = $1 AND level > $2
		ORDER BY level ASC
		LIMIT 1
	`, streamerID, level).Scan(&rule.ID, &rule.StreamerID, &rule.Level, &rule.MinHours, &rule.Active)
	if err == nil {
		return &rule, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT id, COALESCE(streamer_id, 0), level, min_hours, active
		FROM streamer_level_rules
		WHERE active = TRUE AND streamer_id IS NULL AND level > $1
		ORDER BY level ASC
		LIMIT 1
	`, level).Scan(&rule.ID, &rule.StreamerID, &rule.Level, &rule.MinHours, &rule.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *LevelRuleRepository) scanViewerRules(rows pgx.Rows) ([]*domain.ViewerLevelRule, error) {
	var result []*domain.ViewerLevelRule
	for rows.Next() {
		var rule domain.ViewerLevelRule
		if err := rows.Scan(&rule.ID, &rule.Level, &rule.MinPoints, &rule.RewardCoins, &rule.Active); err != nil {
			return nil, err
		}
		result = append(result, &rule)
	}
	return result, rows.Err()
}
