package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"livestream_backend/internal/domain"
	"livestream_backend/internal/level"
	"livestream_backend/internal/repository"
	"livestream_backend/internal/ws"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Points credited per posted chat message.
const chatMessagePoints = 1

// EventPublisher is what the coordinator needs from the broadcaster. It is
// only ever called after a successful commit and its outcome never feeds
// back into the operation.
type EventPublisher interface {
	Publish(streamID int64, event string, data any)
}

// DefaultBonusRewards is the fixed daily-bonus table; one entry is drawn
// uniformly at random per claim.
var DefaultBonusRewards = []domain.BonusReward{
	{Kind: domain.BonusRewardCoins, Amount: 10},
	{Kind: domain.BonusRewardCoins, Amount: 25},
	{Kind: domain.BonusRewardCoins, Amount: 50},
	{Kind: domain.BonusRewardPoints, Amount: 5},
	{Kind: domain.BonusRewardPoints, Amount: 15},
	{Kind: domain.BonusRewardPoints, Amount: 30},
}

// EconomyService coordinates the money/point operations. Every public
// method is one atomic unit of work: all balance and point mutations plus
// their level checks happen inside a single database transaction, and the
// broadcaster is handed the resulting events only after the commit.
type EconomyService struct {
	db       *pgxpool.Pool
	wallets  *repository.WalletRepository
	profiles *repository.ProfileRepository
	users    *repository.UserRepository
	gifts    *repository.GiftRepository
	rules    *repository.LevelRuleRepository
	chat     *repository.ChatRepository
	packages *repository.CoinPackageRepository
	bonuses  *repository.BonusRepository
	streams  *repository.StreamRepository
	events   EventPublisher
	rewards  []domain.BonusReward
}

func NewEconomyService(db *pgxpool.Pool, events EventPublisher) *EconomyService {
	return &EconomyService{
		db:       db,
		wallets:  repository.NewWalletRepository(db),
		profiles: repository.NewProfileRepository(db),
		users:    repository.NewUserRepository(db),
		gifts:    repository.NewGiftRepository(db),
		rules:    repository.NewLevelRuleRepository(db),
		chat:     repository.NewChatRepository(db),
		packages: repository.NewCoinPackageRepository(db),
		bonuses:  repository.NewBonusRepository(db),
		streams:  repository.NewStreamRepository(db),
		events:   events,
		rewards:  DefaultBonusRewards,
	}
}

type SendGiftResult struct {
	EventID     int64     `json:"event_id"`
	CoinsSpent  int64     `json:"coins_spent"`
	PointsGiven int64     `json:"points_given"`
	NewBalance  int64     `json:"new_balance"`
	PointsTotal int64     `json:"points_total"`
	LeveledUp   bool      `json:"leveled_up"`
	NewLevel    int       `json:"new_level"`
	CreatedAt   time.Time `json:"created_at"`
}

// SendGift debits the sender's wallet, records the send, credits points,
// runs the level check and appends the gift announcement to the stream's
// chat, all in one transaction. The balance-sufficiency check is part of
// the debit statement itself, so two concurrent sends can never both pass
// on the same coins.
func (s *EconomyService) SendGift(ctx context.Context, senderID, streamID, giftID int64, quantity int, message string) (*SendGiftResult, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	actor, err := s.resolveActor(ctx, tx, senderID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.lockWallet(ctx, tx, actor.UserID)
	if err != nil {
		return nil, err
	}

	// wallet first, then recipient resources
	stream, err := s.streams.GetForUpdate(ctx, tx, streamID)
	if err != nil {
		return nil, err
	}

	gift, err := s.gifts.GetActiveTx(ctx, tx, giftID)
	if err != nil {
		return nil, err
	}
	if gift.StreamerID != 0 && gift.StreamerID != stream.StreamerID {
		return nil, ErrOwnershipMismatch
	}

	totalCost := gift.CostCoins * int64(quantity)
	totalPoints := gift.PointsGiven * int64(quantity)

	send := &domain.GiftSend{
		GiftID:      gift.ID,
		StreamID:    stream.ID,
		SenderID:    actor.ID,
		StreamerID:  stream.StreamerID,
		Quantity:    quantity,
		CoinsSpent:  totalCost,
		PointsGiven: totalPoints,
		Message:     message,
	}
	if err := s.gifts.CreateSendTx(ctx, tx, send); err != nil {
		return nil, err
	}

	newBalance, err := s.wallets.ApplyMovement(ctx, tx, wallet.ID, -totalCost, domain.MovementGift, domain.RefGiftSend, send.ID)
	if err != nil {
		return nil, err
	}

	points, _, err := s.profiles.AddViewerPoints(ctx, tx, actor.ID, totalPoints)
	if err != nil {
		return nil, err
	}

	newLevel, leveledUp, rewardBalance, err := s.applyViewerLevelUp(ctx, tx, actor, wallet.ID, points)
	if err != nil {
		return nil, err
	}
	if rewardBalance != nil {
		newBalance = *rewardBalance
	}

	senderName, avatarURL, err := s.users.DisplayTx(ctx, tx, actor.UserID)
	if err != nil {
		return nil, err
	}

	chatMsg := &domain.ChatMessage{
		StreamID:    stream.ID,
		UserID:      actor.UserID,
		Type:        domain.ChatMessageGift,
		Text:        message,
		GiftID:      gift.ID,
		GiftSendID:  send.ID,
		SenderLevel: newLevel,
	}
	if err := s.chat.CreateTx(ctx, tx, chatMsg); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.Publish(stream.ID, ws.EventGiftSent, ws.GiftSentPayload{
		EventID:     send.ID,
		StreamID:    stream.ID,
		GiftID:      gift.ID,
		GiftName:    gift.Name,
		Quantity:    quantity,
		CoinsSpent:  totalCost,
		PointsGiven: totalPoints,
		Message:     message,
		SenderName:  senderName,
		AvatarURL:   avatarURL,
		SenderLevel: newLevel,
		CreatedAt:   send.CreatedAt,
	})
	if leveledUp {
		s.events.Publish(stream.ID, ws.EventViewerLevelUp, ws.ViewerLevelUpPayload{
			StreamID:   stream.ID,
			UserID:     actor.UserID,
			SenderName: senderName,
			NewLevel:   newLevel,
		})
	}

	return &SendGiftResult{
		EventID:     send.ID,
		CoinsSpent:  totalCost,
		PointsGiven: totalPoints,
		NewBalance:  newBalance,
		PointsTotal: points,
		LeveledUp:   leveledUp,
		NewLevel:    newLevel,
		CreatedAt:   send.CreatedAt,
	}, nil
}

type PostMessageResult struct {
	MessageID   int64     `json:"message_id"`
	PointsTotal int64     `json:"points_total"`
	LeveledUp   bool      `json:"leveled_up"`
	NewLevel    int       `json:"new_level"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostChatMessage credits the participation point, runs the level check
// and stores the message stamped with the resulting level.
func (s *EconomyService) PostChatMessage(ctx context.Context, viewerID, streamID int64, text string) (*PostMessageResult, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	viewer, err := s.profiles.ViewerForUpdate(ctx, tx, viewerID)
	if err != nil {
		return nil, err
	}
	stream, err := s.streams.GetTx(ctx, tx, streamID)
	if err != nil {
		return nil, err
	}

	points, _, err := s.profiles.AddViewerPoints(ctx, tx, viewer.ID, chatMessagePoints)
	if err != nil {
		return nil, err
	}

	newLevel, leveledUp, _, err := s.applyViewerLevelUp(ctx, tx, viewer, 0, points)
	if err != nil {
		return nil, err
	}

	senderName, avatarURL, err := s.users.DisplayTx(ctx, tx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	chatMsg := &domain.ChatMessage{
		StreamID:    stream.ID,
		UserID:      viewer.UserID,
		Type:        domain.ChatMessageText,
		Text:        text,
		SenderLevel: newLevel,
	}
	if err := s.chat.CreateTx(ctx, tx, chatMsg); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.Publish(stream.ID, ws.EventChatMessage, ws.ChatMessagePayload{
		MessageID:   chatMsg.ID,
		StreamID:    stream.ID,
		UserID:      viewer.UserID,
		SenderName:  senderName,
		AvatarURL:   avatarURL,
		Text:        text,
		SenderLevel: newLevel,
		CreatedAt:   chatMsg.CreatedAt,
	})
	if leveledUp {
		s.events.Publish(stream.ID, ws.EventViewerLevelUp, ws.ViewerLevelUpPayload{
			StreamID:   stream.ID,
			UserID:     viewer.UserID,
			SenderName: senderName,
			NewLevel:   newLevel,
		})
	}

	return &PostMessageResult{
		MessageID:   chatMsg.ID,
		PointsTotal: points,
		LeveledUp:   leveledUp,
		NewLevel:    newLevel,
		CreatedAt:   chatMsg.CreatedAt,
	}, nil
}

type PurchaseResult struct {
	OrderID    int64 `json:"order_id"`
	Coins      int64 `json:"coins"`
	NewBalance int64 `json:"new_balance"`
}

// PurchaseCoins credits the wallet with a package's coins (simulated
// purchase, no payment gateway). No level interaction.
func (s *EconomyService) PurchaseCoins(ctx context.Context, viewerID, packageID int64) (*PurchaseResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	viewer, err := s.profiles.ViewerForUpdate(ctx, tx, viewerID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.lockWallet(ctx, tx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetActiveTx(ctx, tx, packageID)
	if err != nil {
		return nil, err
	}

	order := &domain.CoinOrder{
		UserID:    viewer.UserID,
		PackageID: pkg.ID,
		Coins:     pkg.Coins,
		PriceCts:  pkg.PriceCts,
		Status:    "paid",
	}
	if err := s.packages.CreateOrderTx(ctx, tx, order); err != nil {
		return nil, err
	}

	newBalance, err := s.wallets.ApplyMovement(ctx, tx, wallet.ID, pkg.Coins, domain.MovementRecharge, domain.RefCoinOrder, order.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PurchaseResult{OrderID: order.ID, Coins: pkg.Coins, NewBalance: newBalance}, nil
}

type ClaimBonusResult struct {
	Reward      domain.BonusReward `json:"reward"`
	NewBalance  *int64             `json:"new_balance,omitempty"`
	PointsTotal *int64             `json:"points_total,omitempty"`
	LeveledUp   bool               `json:"leveled_up"`
	NewLevel    int                `json:"new_level"`
}

// ClaimDailyBonus grants one random reward per viewer per calendar day.
// The claim row's unique key decides concurrent attempts: whoever inserts
// first wins, everyone else rolls back with ErrAlreadyClaimed.
func (s *EconomyService) ClaimDailyBonus(ctx context.Context, viewerID int64) (*ClaimBonusResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	viewer, err := s.profiles.ViewerForUpdate(ctx, tx, viewerID)
	if err != nil {
		return nil, err
	}

	reward := s.rewards[rand.Intn(len(s.rewards))]
	now := time.Now().UTC()
	claimDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	claim := &domain.DailyBonusClaim{
		ViewerProfileID: viewer.ID,
		ClaimDate:       claimDate,
		RewardKind:      reward.Kind,
		RewardAmount:    reward.Amount,
	}
	if err := s.bonuses.CreateClaimTx(ctx, tx, claim); err != nil {
		return nil, err
	}

	result := &ClaimBonusResult{Reward: reward, NewLevel: viewer.Level}

	switch reward.Kind {
	case domain.BonusRewardCoins:
		wallet, err := s.lockWallet(ctx, tx, viewer.UserID)
		if err != nil {
			return nil, err
		}
		newBalance, err := s.wallets.ApplyMovement(ctx, tx, wallet.ID, reward.Amount, domain.MovementDailyBonus, domain.RefBonusClaim, claim.ID)
		if err != nil {
			return nil, err
		}
		result.NewBalance = &newBalance

	case domain.BonusRewardPoints:
		points, _, err := s.profiles.AddViewerPoints(ctx, tx, viewer.ID, reward.Amount)
		if err != nil {
			return nil, err
		}
		newLevel, leveledUp, _, err := s.applyViewerLevelUp(ctx, tx, viewer, 0, points)
		if err != nil {
			return nil, err
		}
		result.PointsTotal = &points
		result.LeveledUp = leveledUp
		result.NewLevel = newLevel
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// lockWallet acquires the user's wallet row for the transaction, creating
// an empty wallet first for accounts that never held coins. Creation is
// serialized by the actor's profile lock, which every coordinator
// operation takes before reaching here.
func (s *EconomyService) lockWallet(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Wallet, error) {
	wallet, err := s.wallets.GetForUpdate(ctx, tx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.wallets.CreateTx(ctx, tx, userID)
	}
	return wallet, err
}

// resolveActor turns the supplied sender id into a locked viewer profile.
// Streamers may send gifts too: an id that matches no viewer profile but
// does match a streamer profile resolves to that account's viewer profile,
// creating it on first use (race-safe via the unique user_id key).
func (s *EconomyService) resolveActor(ctx context.Context, tx pgx.Tx, senderID int64) (*domain.ViewerProfile, error) {
	viewer, err := s.profiles.ViewerForUpdate(ctx, tx, senderID)
	if err == nil {
		return viewer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	streamer, err := s.profiles.StreamerByIDTx(ctx, tx, senderID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetOrCreateViewerByUser(ctx, tx, streamer.UserID)
}

// applyViewerLevelUp re-evaluates the viewer's level against the freshly
// persisted points total and applies the promotion plus the reached
// rule's optional coin reward. walletID may be 0 when the caller has no
// wallet locked yet (chat posting, point bonuses); the wallet is then
// locked here before the reward credit. Returns the level to stamp on
// records created after the mutation.
func (s *EconomyService) applyViewerLevelUp(ctx context.Context, tx pgx.Tx, viewer *domain.ViewerProfile, walletID int64, points int64) (newLevel int, leveledUp bool, newBalance *int64, err error) {
	rules, err := s.rules.ActiveViewerRulesTx(ctx, tx)
	if err != nil {
		return 0, false, nil, err
	}

	lr := make([]level.Rule, 0, len(rules))
	for _, r := range rules {
		lr = append(lr, level.Rule{Level: r.Level, Threshold: float64(r.MinPoints), Active: r.Active})
	}

	res := level.Evaluate(float64(points), viewer.Level, lr)
	if !res.LeveledUp {
		return viewer.Level, false, nil, nil
	}

	if err := s.profiles.SetViewerLevel(ctx, tx, viewer.ID, res.NewLevel); err != nil {
		return 0, false, nil, err
	}

	for _, r := range rules {
		if r.Level != res.NewLevel || r.RewardCoins <= 0 {
			continue
		}
		if walletID == 0 {
			wallet, err := s.lockWallet(ctx, tx, viewer.UserID)
			if err != nil {
				return 0, false, nil, err
			}
			walletID = wallet.ID
		}
		balance, err := s.wallets.ApplyMovement(ctx, tx, walletID, r.RewardCoins, domain.MovementLevelReward, domain.RefLevelRule, r.ID)
		if err != nil {
			return 0, false, nil, err
		}
		newBalance = &balance
		break
	}

	return res.NewLevel, true, newBalance, nil
}
