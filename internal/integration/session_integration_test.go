package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"livestream_backend/internal/service"
	"livestream_backend/internal/ws"
)

func TestSessionStart_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	streamerID, streamID := createStreamer(t, db)
	svc := service.NewSessionService(db, ws.NewHub())

	first, err := svc.Start(ctx, streamID, streamerID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.AlreadyLive {
		t.Fatal("first start must open a new session")
	}
	if first.IngestKey == "" || first.PushURL == "" || first.ViewURL == "" {
		t.Fatal("start must return ingest details")
	}

	second, err := svc.Start(ctx, streamID, streamerID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !second.AlreadyLive {
		t.Fatal("second start must report the stream as already live")
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("expected same session, got %d and %d", first.SessionID, second.SessionID)
	}

	var open int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM stream_sessions WHERE ended_at IS NULL`).Scan(&open); err != nil {
		t.Fatal(err)
	}
	if open != 1 {
		t.Fatalf("expected 1 open session, got %d", open)
	}
}

func TestSessionStart_ConcurrentStartsShareSession(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	streamerID, streamID := createStreamer(t, db)
	svc := service.NewSessionService(db, ws.NewHub())

	const attempts = 4
	results := make([]*service.StartResult, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Start(ctx, streamID, streamerID, nil)
		}(i)
	}
	wg.Wait()

	var sessionID int64
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("start %d: %v", i, errs[i])
		}
		if sessionID == 0 {
			sessionID = results[i].SessionID
		} else if results[i].SessionID != sessionID {
			t.Fatalf("starts produced different sessions: %d and %d", sessionID, results[i].SessionID)
		}
	}

	var open int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM stream_sessions WHERE ended_at IS NULL`).Scan(&open); err != nil {
		t.Fatal(err)
	}
	if open != 1 {
		t.Fatalf("expected 1 open session, got %d", open)
	}
}

func TestSessionStop_WithoutStart(t *testing.T) {
	db := testDB(t)

	streamerID, streamID := createStreamer(t, db)
	svc := service.NewSessionService(db, ws.NewHub())

	_, err := svc.Stop(context.Background(), streamID, streamerID, nil)
	if !errors.Is(err, service.ErrNoOpenSession) {
		t.Fatalf("expected ErrNoOpenSession, got %v", err)
	}
}

func TestSessionStop_CreditsHoursAndLevels(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	streamerID, streamID := createStreamer(t, db)
	if _, err := db.Exec(ctx, `
		INSERT INTO streamer_level_rules (streamer_id, level, min_hours) VALUES (NULL, 2, 1.0)
	`); err != nil {
		t.Fatal(err)
	}

	svc := service.NewSessionService(db, ws.NewHub())

	startAt := time.Now().UTC().Add(-2 * time.Hour)
	if _, err := svc.Start(ctx, streamID, streamerID, &startAt); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Stop(ctx, streamID, streamerID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.DurationHours < 1.9 || res.DurationHours > 2.1 {
		t.Fatalf("expected ~2 hours, got %f", res.DurationHours)
	}
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Fatalf("expected promotion to level 2, got leveledUp=%v level=%d", res.LeveledUp, res.NewLevel)
	}

	var status string
	if err := db.QueryRow(ctx, `SELECT status FROM streams WHERE id = $1`, streamID).Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != "finished" {
		t.Fatalf("expected stream finished, got %s", status)
	}

	// a new session may open after the stop
	again, err := svc.Start(ctx, streamID, streamerID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.AlreadyLive {
		t.Fatal("stream must be startable again after stop")
	}
	if again.SessionID == res.SessionID {
		t.Fatal("restart must open a fresh session")
	}
}

func TestSessionStop_ClampsNegativeDuration(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	streamerID, streamID := createStreamer(t, db)
	svc := service.NewSessionService(db, ws.NewHub())

	start, err := svc.Start(ctx, streamID, streamerID, nil)
	if err != nil {
		t.Fatal(err)
	}

	// an end time before the start is clamped, never negative
	endAt := start.StartedAt.Add(-1 * time.Hour)
	res, err := svc.Stop(ctx, streamID, streamerID, &endAt)
	if err != nil {
		t.Fatal(err)
	}
	if res.DurationHours != 0 {
		t.Fatalf("expected 0 duration, got %f", res.DurationHours)
	}
	if res.EndedAt.Before(res.StartedAt) {
		t.Fatalf("ended_at %v precedes started_at %v", res.EndedAt, res.StartedAt)
	}
}
