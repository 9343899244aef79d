package domain

import "time"

// Wallet holds the coin balance of one account. The balance is only ever
// mutated inside a database transaction and never goes below zero; every
// change produces a WalletMovement row, so the balance always equals the
// signed sum of its movements.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Movement types.
const (
	MovementRecharge    = "recharge"
	MovementGift        = "gift"
	MovementDailyBonus  = "daily_bonus"
	MovementLevelReward = "level_reward"
)

// Movement reference types, naming the row that caused the change.
const (
	RefCoinOrder  = "coin_order"
	RefGiftSend   = "gift_send"
	RefBonusClaim = "bonus_claim"
	RefLevelRule  = "level_rule"
)

// WalletMovement is an append-only ledger entry. Amount is signed:
// negative for debits, positive for credits.
type WalletMovement struct {
	ID        int64     `db:"id" json:"id"`
	WalletID  int64     `db:"wallet_id" json:"wallet_id"`
	Type      string    `db:"type" json:"type"`
	Amount    int64     `db:"amount" json:"amount"`
	RefType   string    `db:"ref_type" json:"ref_type"`
	RefID     int64     `db:"ref_id" json:"ref_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
