package domain

// ViewerLevelRule is a global promotion rule: reaching MinPoints qualifies
// the viewer for Level. RewardCoins is an optional one-time wallet credit
// granted on promotion. Level numbers are unique among active rules.
type ViewerLevelRule struct {
	ID          int64 `db:"id" json:"id"`
	Level       int   `db:"level" json:"level"`
	MinPoints   int64 `db:"min_points" json:"min_points"`
	RewardCoins int64 `db:"reward_coins" json:"reward_coins"`
	Active      bool  `db:"active" json:"active"`
}

// StreamerLevelRule maps cumulative broadcast hours to a streamer level.
// StreamerID == 0 marks a global fallback rule, used only when the streamer
// has no qualifying rule of their own.
type StreamerLevelRule struct {
	ID         int64   `db:"id" json:"id"`
	StreamerID int64   `db:"streamer_id" json:"streamer_id,omitempty"`
	Level      int     `db:"level" json:"level"`
	MinHours   float64 `db:"min_hours" json:"min_hours"`
	Active     bool    `db:"active" json:"active"`
}
