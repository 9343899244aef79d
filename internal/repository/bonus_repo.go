package repository

import (
	"context"
	"time"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BonusRepository struct {
	db *pgxpool.Pool
}

func NewBonusRepository(db *pgxpool.Pool) *BonusRepository {
	return &BonusRepository{db: db}
}

// CreateClaimTx persists a claim inside tx. The store's unique
// (viewer_profile_id, claim_date) key is the arbiter for concurrent
// claims: exactly one insert wins, every other attempt for the same day
// gets ErrAlreadyClaimed.
func (r *BonusRepository) CreateClaimTx(ctx context.Context, tx pgx.Tx, c *domain.DailyBonusClaim) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO daily_bonus_claims (viewer_profile_id, claim_date, reward_kind, reward_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.ViewerProfileID, c.ClaimDate, c.RewardKind, c.RewardAmount).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyClaimed
	}
	return err
}

// ClaimForDate returns the claim of a viewer for a calendar date, or nil.
func (r *BonusRepository) ClaimForDate(ctx context.Context, viewerProfileID int64, date time.Time) (*domain.DailyBonusClaim, error) {
	var c domain.DailyBonusClaim
	err := r.db.QueryRow(ctx, `
		SELECT id, viewer_profile_id, claim_date, reward_kind, reward_amount, created_at
		FROM daily_bonus_claims
		WHERE viewer_profile_id = $1 AND claim_date = $2
	`, viewerProfileID, date).Scan(&c.ID, &c.ViewerProfileID, &c.ClaimDate, &c.RewardKind, &c.RewardAmount, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
