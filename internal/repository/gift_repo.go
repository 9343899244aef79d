package repository

import (
	"context"
	"errors"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

// ListForStreamer returns active gifts sendable on this streamer's
// streams: the streamer's own plus the global catalog.
func (r *GiftRepository) ListForStreamer(ctx context.Context, streamerID int64) ([]*domain.Gift, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(streamer_id, 0), name, cost_coins, points_given, active, created_at
		FROM gifts
		WHERE active = TRUE AND (streamer_id = $1 OR streamer_id IS NULL)
		ORDER BY cost_coins ASC, id ASC
	`, streamerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanGifts(rows)
}

func (r *GiftRepository) ListActive(ctx context.Context) ([]*domain.Gift, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(streamer_id, 0), name, cost_coins, points_given, active, created_at
		FROM gifts
		WHERE active = TRUE
		ORDER BY streamer_id NULLS FIRST, cost_coins ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanGifts(rows)
}

// GetActiveTx resolves a gift inside the send transaction. Inactive and
// missing gifts are both ErrNotFound.
func (r *GiftRepository) GetActiveTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Gift, error) {
	var g domain.Gift
	err := tx.QueryRow(ctx, `
		SELECT id, COALESCE(streamer_id, 0), name, cost_coins, points_given, active, created_at
		FROM gifts
		WHERE id = $1 AND active = TRUE
	`, id).Scan(&g.ID, &g.StreamerID, &g.Name, &g.CostCoins, &g.PointsGiven, &g.Active, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GiftRepository) GetByID(ctx context.Context, id int64) (*domain.Gift, error) {
	var g domain.Gift
	err := r.db.QueryRow(ctx, `
		SELECT id, COALESCE(streamer_id, 0), name, cost_coins, points_given, active, created_at
		FROM gifts
		WHERE id = $1
	`, id).Scan(&g.ID, &g.StreamerID, &g.Name, &g.CostCoins, &g.PointsGiven, &g.Active, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GiftRepository) Create(ctx context.Context, g *domain.Gift) error {
	var streamerID interface{}
	if g.StreamerID != 0 {
		streamerID = g.StreamerID
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO gifts (streamer_id, name, cost_coins, points_given, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, streamerID, g.Name, g.CostCoins, g.PointsGiven, g.Active).Scan(&g.ID, &g.CreatedAt)
}

func (r *GiftRepository) Update(ctx context.Context, g *domain.Gift) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE gifts
		SET name = $1, cost_coins = $2, points_given = $3, active = $4
		WHERE id = $5
	`, g.Name, g.CostCoins, g.PointsGiven, g.Active, g.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate is a soft delete: the gift stays referenced by history rows.
func (r *GiftRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE gifts SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSendTx appends the immutable gift-send record inside tx.
func (r *GiftRepository) CreateSendTx(ctx context.Context, tx pgx.Tx, s *domain.GiftSend) error {
	var msg interface{}
	if s.Message != "" {
		msg = s.Message
	}
	return tx.QueryRow(ctx, `
		INSERT INTO gift_sends (gift_id, stream_id, sender_id, streamer_id, quantity, coins_spent, points_given, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, s.GiftID, s.StreamID, s.SenderID, s.StreamerID, s.Quantity, s.CoinsSpent, s.PointsGiven, msg).Scan(&s.ID, &s.CreatedAt)
}

func (r *GiftRepository) scanGifts(rows pgx.Rows) ([]*domain.Gift, error) {
	var result []*domain.Gift
	for rows.Next() {
		var g domain.Gift
		if err := rows.Scan(&g.ID, &g.StreamerID, &g.Name, &g.CostCoins, &g.PointsGiven, &g.Active, &g.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &g)
	}
	return result, rows.Err()
}
