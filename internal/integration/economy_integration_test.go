package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"livestream_backend/internal/service"
	"livestream_backend/internal/ws"
)

// recordingPublisher captures what the coordinator pushed, in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(streamID int64, event string, data any) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func TestSendGift_InsufficientFundsRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 100)
	_, streamID := createStreamer(t, db)
	giftID := createGift(t, db, 30, 10)

	econ := service.NewEconomyService(db, ws.NewHub())

	for i := 0; i < 3; i++ {
		if _, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, ""); err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
	}

	_, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, "")
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := walletBalance(t, db, viewerID); got != 10 {
		t.Fatalf("expected balance 10, got %d", got)
	}

	// the failed send left no trace
	var sends int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM gift_sends`).Scan(&sends); err != nil {
		t.Fatal(err)
	}
	if sends != 3 {
		t.Fatalf("expected 3 gift_sends rows, got %d", sends)
	}
	var msgs int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages`).Scan(&msgs); err != nil {
		t.Fatal(err)
	}
	if msgs != 3 {
		t.Fatalf("expected 3 chat messages, got %d", msgs)
	}
}

func TestSendGift_ConcurrentSendsConserveCoins(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 100)
	_, streamID := createStreamer(t, db)
	giftID := createGift(t, db, 30, 10)

	econ := service.NewEconomyService(db, ws.NewHub())

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = econ.SendGift(ctx, viewerID, streamID, giftID, 1, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, service.ErrInsufficientFunds) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 3 {
		t.Fatalf("expected exactly 3 sends to succeed, got %d", succeeded)
	}

	// coins spent plus remaining balance equals the initial funding
	balance := walletBalance(t, db, viewerID)
	var spent int64
	if err := db.QueryRow(ctx, `SELECT COALESCE(SUM(coins_spent), 0) FROM gift_sends`).Scan(&spent); err != nil {
		t.Fatal(err)
	}
	if balance+spent != 100 {
		t.Fatalf("coins not conserved: balance=%d spent=%d", balance, spent)
	}
}

func TestSendGift_LevelUpWithReward(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 100)
	_, streamID := createStreamer(t, db)
	giftID := createGift(t, db, 20, 10)
	createViewerRule(t, db, 2, 15, 5)

	econ := service.NewEconomyService(db, ws.NewHub())

	first, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if first.LeveledUp {
		t.Fatalf("10 points must not reach the 15 point threshold")
	}
	if first.NewLevel != 1 {
		t.Fatalf("expected level 1, got %d", first.NewLevel)
	}

	second, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if !second.LeveledUp || second.NewLevel != 2 {
		t.Fatalf("expected promotion to level 2, got leveledUp=%v level=%d", second.LeveledUp, second.NewLevel)
	}
	if second.PointsTotal != 20 {
		t.Fatalf("expected 20 points, got %d", second.PointsTotal)
	}

	// 100 - 20 - 20 + 5 reward
	if second.NewBalance != 65 {
		t.Fatalf("expected balance 65 after reward, got %d", second.NewBalance)
	}

	// gift chat entries are stamped with the post-promotion level
	var senderLevel int
	err = db.QueryRow(ctx, `
		SELECT sender_level FROM chat_messages ORDER BY id DESC LIMIT 1
	`).Scan(&senderLevel)
	if err != nil {
		t.Fatal(err)
	}
	if senderLevel != 2 {
		t.Fatalf("expected chat entry at level 2, got %d", senderLevel)
	}
}

func TestSendGift_QuantityMultipliesCostAndPoints(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 100)
	_, streamID := createStreamer(t, db)
	giftID := createGift(t, db, 20, 10)
	createViewerRule(t, db, 2, 15, 0)

	econ := service.NewEconomyService(db, ws.NewHub())

	res, err := econ.SendGift(ctx, viewerID, streamID, giftID, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.CoinsSpent != 40 {
		t.Fatalf("expected 40 coins spent, got %d", res.CoinsSpent)
	}
	if res.NewBalance != 60 {
		t.Fatalf("expected balance 60, got %d", res.NewBalance)
	}
	if res.PointsTotal != 20 {
		t.Fatalf("expected 20 points, got %d", res.PointsTotal)
	}
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Fatalf("expected level 2, got leveledUp=%v level=%d", res.LeveledUp, res.NewLevel)
	}

	_, err = econ.SendGift(ctx, viewerID, streamID, giftID, 0, "")
	if !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestSendGift_BroadcastsOnlyAfterCommit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 25)
	_, streamID := createStreamer(t, db)
	giftID := createGift(t, db, 20, 10)

	pub := &recordingPublisher{}
	econ := service.NewEconomyService(db, pub)

	if _, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, ""); err != nil {
		t.Fatal(err)
	}
	if got := pub.published(); len(got) != 1 || got[0] != ws.EventGiftSent {
		t.Fatalf("expected one gift_sent event, got %v", got)
	}

	// the rolled-back send reaches no subscriber
	_, err := econ.SendGift(ctx, viewerID, streamID, giftID, 1, "")
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := pub.published(); len(got) != 1 {
		t.Fatalf("failed send must not publish, got %v", got)
	}
}

func TestPostChatMessage_CreditsPoint(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 0)
	_, streamID := createStreamer(t, db)

	econ := service.NewEconomyService(db, ws.NewHub())

	res, err := econ.PostChatMessage(ctx, viewerID, streamID, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.PointsTotal != 1 {
		t.Fatalf("expected 1 point, got %d", res.PointsTotal)
	}

	_, err = econ.PostChatMessage(ctx, viewerID, streamID, "")
	if !errors.Is(err, service.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestPurchaseCoins_CreditsWallet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 10)

	var pkgID int64
	err := db.QueryRow(ctx, `
		INSERT INTO coin_packages (name, coins, price_cents)
		VALUES ('test pack', 500, 999)
		RETURNING id
	`).Scan(&pkgID)
	if err != nil {
		t.Fatal(err)
	}

	econ := service.NewEconomyService(db, ws.NewHub())

	res, err := econ.PurchaseCoins(ctx, viewerID, pkgID)
	if err != nil {
		t.Fatal(err)
	}
	if res.NewBalance != 510 {
		t.Fatalf("expected balance 510, got %d", res.NewBalance)
	}

	var mvType string
	var amount int64
	err = db.QueryRow(ctx, `
		SELECT type, amount FROM wallet_movements ORDER BY id DESC LIMIT 1
	`).Scan(&mvType, &amount)
	if err != nil {
		t.Fatal(err)
	}
	if mvType != "recharge" || amount != 500 {
		t.Fatalf("expected recharge movement of 500, got %s %d", mvType, amount)
	}
}

func TestClaimDailyBonus_ConcurrentClaimsSingleWinner(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	viewerID := createViewer(t, db, 0)

	econ := service.NewEconomyService(db, ws.NewHub())

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = econ.ClaimDailyBonus(ctx, viewerID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, service.ErrAlreadyClaimed) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful claim, got %d", succeeded)
	}

	var claims int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM daily_bonus_claims`).Scan(&claims); err != nil {
		t.Fatal(err)
	}
	if claims != 1 {
		t.Fatalf("expected 1 claim row, got %d", claims)
	}

	// a second sequential claim the same day is also rejected
	_, err := econ.ClaimDailyBonus(ctx, viewerID)
	if !errors.Is(err, service.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}
}
