package domain

import "time"

// Bonus reward kinds.
const (
	BonusRewardCoins  = "coins"
	BonusRewardPoints = "points"
)

// BonusReward is one entry of the fixed daily-bonus table. One entry is
// drawn uniformly at random per claim.
type BonusReward struct {
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
}

// DailyBonusClaim records one claim. The (viewer_profile_id, claim_date)
// pair is unique in the store, which is what rejects concurrent duplicate
// claims.
type DailyBonusClaim struct {
	ID              int64     `db:"id" json:"id"`
	ViewerProfileID int64     `db:"viewer_profile_id" json:"viewer_profile_id"`
	ClaimDate       time.Time `db:"claim_date" json:"claim_date"`
	RewardKind      string    `db:"reward_kind" json:"reward_kind"`
	RewardAmount    int64     `db:"reward_amount" json:"reward_amount"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
