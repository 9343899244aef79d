package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livestream_backend/internal/domain"
	"livestream_backend/internal/level"
	"livestream_backend/internal/repository"
	"livestream_backend/internal/ws"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionService tracks the live state of streams: NotLive -> Live on
// Start, back to NotLive on Stop. Stop credits the elapsed hours to the
// streamer and runs the hour-based level check, commit first, broadcast
// after.
type SessionService struct {
	db       *pgxpool.Pool
	streams  *repository.StreamRepository
	profiles *repository.ProfileRepository
	rules    *repository.LevelRuleRepository
	events   EventPublisher
}

func NewSessionService(db *pgxpool.Pool, events EventPublisher) *SessionService {
	return &SessionService{
		db:       db,
		streams:  repository.NewStreamRepository(db),
		profiles: repository.NewProfileRepository(db),
		rules:    repository.NewLevelRuleRepository(db),
		events:   events,
	}
}

type StartResult struct {
	SessionID   int64     `json:"session_id"`
	StreamID    int64     `json:"stream_id"`
	State       string    `json:"state"`
	StartedAt   time.Time `json:"started_at"`
	AlreadyLive bool      `json:"already_live"`
	IngestKey   string    `json:"ingest_key"`
	PushURL     string    `json:"push_url"`
	ViewURL     string    `json:"view_url"`
}

type StopResult struct {
	SessionID     int64     `json:"session_id"`
	StreamID      int64     `json:"stream_id"`
	State         string    `json:"state"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	DurationHours float64   `json:"duration_hours"`
	TotalHours    float64   `json:"total_hours"`
	LeveledUp     bool      `json:"leveled_up"`
	NewLevel      int       `json:"new_level"`
}

// Start opens a broadcast session. Idempotent: the stream row lock
// serializes concurrent starts, and a start on an already-live stream
// returns the existing open session, so every caller sees the same
// session id.
func (s *SessionService) Start(ctx context.Context, streamID, streamerID int64, at *time.Time) (*StartResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stream, err := s.streams.GetForUpdate(ctx, tx, streamID)
	if err != nil {
		return nil, err
	}
	if stream.StreamerID != streamerID {
		return nil, ErrOwnershipMismatch
	}

	if open, err := s.streams.OpenSessionTx(ctx, tx, streamID); err == nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &StartResult{
			SessionID:   open.ID,
			StreamID:    streamID,
			State:       domain.StreamStatusLive,
			StartedAt:   open.StartedAt,
			AlreadyLive: true,
			IngestKey:   stream.IngestKey,
			PushURL:     stream.PushURL,
			ViewURL:     stream.ViewURL,
		}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	startedAt := time.Now().UTC()
	if at != nil {
		startedAt = at.UTC()
	}

	key := stream.IngestKey
	if key == "" {
		key = uuid.NewString()
	}
	pushURL, viewURL := buildIngestLinks(key)

	session, err := s.streams.CreateSessionTx(ctx, tx, streamID, startedAt)
	if err != nil {
		return nil, err
	}
	if err := s.streams.SetLiveTx(ctx, tx, streamID, key, pushURL, viewURL, startedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &StartResult{
		SessionID: session.ID,
		StreamID:  streamID,
		State:     domain.StreamStatusLive,
		StartedAt: session.StartedAt,
		IngestKey: key,
		PushURL:   pushURL,
		ViewURL:   viewURL,
	}, nil
}

// Stop closes the open session, credits the hours and re-evaluates the
// streamer level. The supplied end time is clamped to the session start
// so the duration can never go negative.
func (s *SessionService) Stop(ctx context.Context, streamID, streamerID int64, at *time.Time) (*StopResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stream, err := s.streams.GetForUpdate(ctx, tx, streamID)
	if err != nil {
		return nil, err
	}
	if stream.StreamerID != streamerID {
		return nil, ErrOwnershipMismatch
	}

	session, err := s.streams.OpenSessionTx(ctx, tx, streamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}

	endedAt := time.Now().UTC()
	if at != nil {
		endedAt = at.UTC()
	}
	if endedAt.Before(session.StartedAt) {
		endedAt = session.StartedAt
	}
	hours := endedAt.Sub(session.StartedAt).Hours()

	if err := s.streams.CloseSessionTx(ctx, tx, session.ID, endedAt, hours); err != nil {
		return nil, err
	}
	if err := s.streams.SetFinishedTx(ctx, tx, streamID, endedAt); err != nil {
		return nil, err
	}

	totalHours, currentLevel, err := s.profiles.AddStreamerHours(ctx, tx, stream.StreamerID, hours, endedAt)
	if err != nil {
		return nil, err
	}

	newLevel, leveledUp, err := s.applyStreamerLevelUp(ctx, tx, stream.StreamerID, totalHours, currentLevel)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if leveledUp {
		s.events.Publish(streamID, ws.EventStreamerLevelUp, ws.StreamerLevelUpPayload{
			StreamID:   streamID,
			StreamerID: stream.StreamerID,
			NewLevel:   newLevel,
			TotalHours: totalHours,
		})
	}

	return &StopResult{
		SessionID:     session.ID,
		StreamID:      streamID,
		State:         domain.StreamStatusFinished,
		StartedAt:     session.StartedAt,
		EndedAt:       endedAt,
		DurationHours: hours,
		TotalHours:    totalHours,
		LeveledUp:     leveledUp,
		NewLevel:      newLevel,
	}, nil
}

// applyStreamerLevelUp evaluates the streamer ladder: the streamer's own
// rules when any of them could still promote, the global table otherwise.
func (s *SessionService) applyStreamerLevelUp(ctx context.Context, tx pgx.Tx, streamerID int64, totalHours float64, currentLevel int) (int, bool, error) {
	scoped, global, err := s.rules.ActiveStreamerRulesTx(ctx, tx, streamerID)
	if err != nil {
		return 0, false, err
	}

	ladder := global
	for _, r := range scoped {
		if r.Level > currentLevel {
			ladder = scoped
			break
		}
	}

	lr := make([]level.Rule, 0, len(ladder))
	for _, r := range ladder {
		lr = append(lr, level.Rule{Level: r.Level, Threshold: r.MinHours, Active: r.Active})
	}

	res := level.Evaluate(totalHours, currentLevel, lr)
	if !res.LeveledUp {
		return currentLevel, false, nil
	}
	if err := s.profiles.SetStreamerLevel(ctx, tx, streamerID, res.NewLevel); err != nil {
		return 0, false, err
	}
	return res.NewLevel, true, nil
}

func buildIngestLinks(key string) (pushURL, viewURL string) {
	pushURL = fmt.Sprintf("https://vdo.ninja/?push=%s&webcam&quality=0&proaudio", key)
	viewURL = fmt.Sprintf("https://vdo.ninja/?view=%s&cleanoutput", key)
	return pushURL, viewURL
}
