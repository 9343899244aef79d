package repository

import (
	"context"
	"errors"
	"time"

	"livestream_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StreamRepository struct {
	db *pgxpool.Pool
}

func NewStreamRepository(db *pgxpool.Pool) *StreamRepository {
	return &StreamRepository{db: db}
}

func (r *StreamRepository) Create(ctx context.Context, s *domain.Stream) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO streams (streamer_id, title, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, s.StreamerID, s.Title, domain.StreamStatusIdle).Scan(&s.ID)
}

func (r *StreamRepository) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	var s domain.Stream
	err := r.db.QueryRow(ctx, `
		SELECT id, streamer_id, title, status,
		       COALESCE(ingest_key, ''), COALESCE(push_url, ''), COALESCE(view_url, ''),
		       started_at, ended_at
		FROM streams
		WHERE id = $1
	`, id).Scan(&s.ID, &s.StreamerID, &s.Title, &s.Status,
		&s.IngestKey, &s.PushURL, &s.ViewURL, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetForUpdate locks the stream row inside tx. Session start/stop and gift
// sends lock here first, which serializes concurrent starts on the same
// stream.
func (r *StreamRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Stream, error) {
	var s domain.Stream
	err := tx.QueryRow(ctx, `
		SELECT id, streamer_id, title, status,
		       COALESCE(ingest_key, ''), COALESCE(push_url, ''), COALESCE(view_url, ''),
		       started_at, ended_at
		FROM streams
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&s.ID, &s.StreamerID, &s.Title, &s.Status,
		&s.IngestKey, &s.PushURL, &s.ViewURL, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetTx reads a stream inside tx without locking it; chat posting uses
// this so messages on one stream are not serialized against each other.
func (r *StreamRepository) GetTx(ctx context.Context, tx pgx.Tx, id int64) (*domain.Stream, error) {
	var s domain.Stream
	err := tx.QueryRow(ctx, `
		SELECT id, streamer_id, title, status,
		       COALESCE(ingest_key, ''), COALESCE(push_url, ''), COALESCE(view_url, ''),
		       started_at, ended_at
		FROM streams
		WHERE id = $1
	`, id).Scan(&s.ID, &s.StreamerID, &s.Title, &s.Status,
		&s.IngestKey, &s.PushURL, &s.ViewURL, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListLive returns live streams with the streamer's display fields for the
// feed, newest first.
func (r *StreamRepository) ListLive(ctx context.Context, limit int) ([]*domain.StreamListing, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.streamer_id, s.title, s.status, COALESCE(s.view_url, ''), s.started_at,
		       u.display_name, COALESCE(u.avatar_url, '')
		FROM streams s
		JOIN streamer_profiles sp ON sp.id = s.streamer_id
		JOIN users u ON u.id = sp.user_id
		WHERE s.status = $1
		ORDER BY s.started_at DESC NULLS LAST, s.id DESC
		LIMIT $2
	`, domain.StreamStatusLive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.StreamListing
	for rows.Next() {
		var l domain.StreamListing
		if err := rows.Scan(&l.ID, &l.StreamerID, &l.Title, &l.Status, &l.ViewURL, &l.StartedAt,
			&l.StreamerName, &l.AvatarURL); err != nil {
			return nil, err
		}
		result = append(result, &l)
	}
	return result, rows.Err()
}

// OpenSessionTx returns the open session of a stream, locked, or
// ErrNotFound when none is open.
func (r *StreamRepository) OpenSessionTx(ctx context.Context, tx pgx.Tx, streamID int64) (*domain.StreamSession, error) {
	var s domain.StreamSession
	err := tx.QueryRow(ctx, `
		SELECT id, stream_id, started_at, ended_at, COALESCE(duration_hours, 0)
		FROM stream_sessions
		WHERE stream_id = $1 AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
		FOR UPDATE
	`, streamID).Scan(&s.ID, &s.StreamID, &s.StartedAt, &s.EndedAt, &s.DurationHours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *StreamRepository) CreateSessionTx(ctx context.Context, tx pgx.Tx, streamID int64, startedAt time.Time) (*domain.StreamSession, error) {
	var s domain.StreamSession
	err := tx.QueryRow(ctx, `
		INSERT INTO stream_sessions (stream_id, started_at)
		VALUES ($1, $2)
		RETURNING id, stream_id, started_at
	`, streamID, startedAt).Scan(&s.ID, &s.StreamID, &s.StartedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StreamRepository) CloseSessionTx(ctx context.Context, tx pgx.Tx, sessionID int64, endedAt time.Time, hours float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE stream_sessions
		SET ended_at = $1, duration_hours = $2
		WHERE id = $3
	`, endedAt, hours, sessionID)
	return err
}

func (r *StreamRepository) SetLiveTx(ctx context.Context, tx pgx.Tx, streamID int64, ingestKey, pushURL, viewURL string, startedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE streams
		SET status = $1,
		    ingest_key = $2, push_url = $3, view_url = $4,
		    started_at = COALESCE(started_at, $5)
		WHERE id = $6
	`, domain.StreamStatusLive, ingestKey, pushURL, viewURL, startedAt, streamID)
	return err
}

func (r *StreamRepository) SetFinishedTx(ctx context.Context, tx pgx.Tx, streamID int64, endedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE streams
		SET status = $1, ended_at = $2
		WHERE id = $3
	`, domain.StreamStatusFinished, endedAt, streamID)
	return err
}
