package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testDB connects to the database named by DATABASE_URL, or skips.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	cleanTables(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// cleanTables resets every table so tests start from a known state.
func cleanTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		TRUNCATE users, wallets, wallet_movements, viewer_profiles, streamer_profiles,
		         gifts, streams, stream_sessions, gift_sends, chat_messages,
		         coin_packages, coin_orders, viewer_level_rules, streamer_level_rules,
		         daily_bonus_claims
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("clean tables: %v", err)
	}
}

// createViewer inserts a user with a viewer profile and a funded wallet,
// returning the viewer profile id.
func createViewer(t *testing.T, db *pgxpool.Pool, balance int64) int64 {
	t.Helper()
	ctx := context.Background()

	var userID int64
	err := db.QueryRow(ctx, `
		INSERT INTO users (email, display_name, role)
		VALUES ($1, 'viewer', 'viewer')
		RETURNING id
	`, uuid.NewString()+"@test.local").Scan(&userID)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := db.Exec(ctx, `INSERT INTO wallets (user_id, balance) VALUES ($1, $2)`, userID, balance); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	var viewerID int64
	if err := db.QueryRow(ctx, `INSERT INTO viewer_profiles (user_id) VALUES ($1) RETURNING id`, userID).Scan(&viewerID); err != nil {
		t.Fatalf("create viewer profile: %v", err)
	}
	return viewerID
}

// createStreamer inserts a user with a streamer profile and a stream,
// returning the streamer profile id and the stream id.
func createStreamer(t *testing.T, db *pgxpool.Pool) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	var userID int64
	err := db.QueryRow(ctx, `
		INSERT INTO users (email, display_name, role)
		VALUES ($1, 'streamer', 'streamer')
		RETURNING id
	`, uuid.NewString()+"@test.local").Scan(&userID)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := db.Exec(ctx, `INSERT INTO wallets (user_id, balance) VALUES ($1, 0)`, userID); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	var streamerID int64
	err = db.QueryRow(ctx, `
		INSERT INTO streamer_profiles (user_id, channel_slug)
		VALUES ($1, $2)
		RETURNING id
	`, userID, uuid.NewString()).Scan(&streamerID)
	if err != nil {
		t.Fatalf("create streamer profile: %v", err)
	}

	var streamID int64
	err = db.QueryRow(ctx, `
		INSERT INTO streams (streamer_id, title)
		VALUES ($1, 'test stream')
		RETURNING id
	`, streamerID).Scan(&streamID)
	if err != nil {
		t.Fatalf("create stream: %v", err)
	}
	return streamerID, streamID
}

func createGift(t *testing.T, db *pgxpool.Pool, cost, points int64) int64 {
	t.Helper()
	var giftID int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO gifts (name, cost_coins, points_given)
		VALUES ('test gift', $1, $2)
		RETURNING id
	`, cost, points).Scan(&giftID)
	if err != nil {
		t.Fatalf("create gift: %v", err)
	}
	return giftID
}

func createViewerRule(t *testing.T, db *pgxpool.Pool, level int, minPoints, rewardCoins int64) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO viewer_level_rules (level, min_points, reward_coins)
		VALUES ($1, $2, $3)
	`, level, minPoints, rewardCoins)
	if err != nil {
		t.Fatalf("create viewer rule: %v", err)
	}
}

func walletBalance(t *testing.T, db *pgxpool.Pool, viewerID int64) int64 {
	t.Helper()
	var balance int64
	err := db.QueryRow(context.Background(), `
		SELECT w.balance
		FROM wallets w
		JOIN viewer_profiles vp ON vp.user_id = w.user_id
		WHERE vp.id = $1
	`, viewerID).Scan(&balance)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return balance
}
