package repository

import (
	"context"
	"errors"
	"time"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) ViewerByID(ctx context.Context, id int64) (*domain.ViewerProfile, error) {
	return r.scanViewer(r.db.QueryRow(ctx, `
		SELECT id, user_id, level, points, created_at
		FROM viewer_profiles
		WHERE id = $1
	`, id))
}

func (r *ProfileRepository) ViewerByUserID(ctx context.Context, userID int64) (*domain.ViewerProfile, error) {
	return r.scanViewer(r.db.QueryRow(ctx, `
		SELECT id, user_id, level, points, created_at
		FROM viewer_profiles
		WHERE user_id = $1
	`, userID))
}

// ViewerForUpdate locks the viewer profile row inside tx.
func (r *ProfileRepository) ViewerForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.ViewerProfile, error) {
	return r.scanViewer(tx.QueryRow(ctx, `
		SELECT id, user_id, level, points, created_at
		FROM viewer_profiles
		WHERE id = $1
		FOR UPDATE
	`, id))
}

// GetOrCreateViewerByUser resolves the viewer profile of a user, creating
// it when absent. The insert relies on the unique user_id constraint: a
// concurrent creator makes ON CONFLICT DO NOTHING return no row, in which
// case the existing profile is fetched instead. The winner is never
// ambiguous and the conflict is not surfaced.
func (r *ProfileRepository) GetOrCreateViewerByUser(ctx context.Context, tx pgx.Tx, userID int64) (*domain.ViewerProfile, error) {
	p, err := r.scanViewer(tx.QueryRow(ctx, `
		INSERT INTO viewer_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, level, points, created_at
	`, userID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return r.scanViewer(tx.QueryRow(ctx, `
		SELECT id, user_id, level, points, created_at
		FROM viewer_profiles
		WHERE user_id = $1
		FOR UPDATE
	`, userID))
}

// AddViewerPoints credits points inside tx and returns the new totals.
func (r *ProfileRepository) AddViewerPoints(ctx context.Context, tx pgx.Tx, id int64, delta int64) (points int64, lvl int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE viewer_profiles
		SET points = points + $1
		WHERE id = $2
		RETURNING points, level
	`, delta, id).Scan(&points, &lvl)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNotFound
	}
	return points, lvl, err
}

func (r *ProfileRepository) SetViewerLevel(ctx context.Context, tx pgx.Tx, id int64, lvl int) error {
	_, err := tx.Exec(ctx, `UPDATE viewer_profiles SET level = $1 WHERE id = $2`, lvl, id)
	return err
}

func (r *ProfileRepository) StreamerByID(ctx context.Context, id int64) (*domain.StreamerProfile, error) {
	return r.scanStreamer(r.db.QueryRow(ctx, `
		SELECT id, user_id, channel_slug, COALESCE(channel_title, ''), level, total_hours, last_stream_at, created_at
		FROM streamer_profiles
		WHERE id = $1
	`, id))
}

// StreamerByIDTx reads a streamer profile inside tx (no lock; used when a
// streamer profile id shows up where a viewer id was expected).
func (r *ProfileRepository) StreamerByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.StreamerProfile, error) {
	return r.scanStreamer(tx.QueryRow(ctx, `
		SELECT id, user_id, channel_slug, COALESCE(channel_title, ''), level, total_hours, last_stream_at, created_at
		FROM streamer_profiles
		WHERE id = $1
	`, id))
}

func (r *ProfileRepository) StreamerByUserID(ctx context.Context, userID int64) (*domain.StreamerProfile, error) {
	return r.scanStreamer(r.db.QueryRow(ctx, `
		SELECT id, user_id, channel_slug, COALESCE(channel_title, ''), level, total_hours, last_stream_at, created_at
		FROM streamer_profiles
		WHERE user_id = $1
	`, userID))
}

// AddStreamerHours credits broadcast hours inside tx and returns the new
// totals for the level evaluation that must follow.
func (r *ProfileRepository) AddStreamerHours(ctx context.Context, tx pgx.Tx, id int64, hours float64, at time.Time) (total float64, lvl int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE streamer_profiles
		SET total_hours = total_hours + $1, last_stream_at = $2
		WHERE id = $3
		RETURNING total_hours, level
	`, hours, at, id).Scan(&total, &lvl)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNotFound
	}
	return total, lvl, err
}

func (r *ProfileRepository) SetStreamerLevel(ctx context.Context, tx pgx.Tx, id int64, lvl int) error {
	_, err := tx.Exec(ctx, `UPDATE streamer_profiles SET level = $1 WHERE id = $2`, lvl, id)
	return err
}

func (r *ProfileRepository) scanViewer(row pgx.Row) (*domain.ViewerProfile, error) {
	var p domain.ViewerProfile
	if err := row.Scan(&p.ID, &p.UserID, &p.Level, &p.Points, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) scanStreamer(row pgx.Row) (*domain.StreamerProfile, error) {
	var p domain.StreamerProfile
	if err := row.Scan(&p.ID, &p.UserID, &p.ChannelSlug, &p.ChannelTitle, &p.Level, &p.TotalHours, &p.LastStreamAt, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
