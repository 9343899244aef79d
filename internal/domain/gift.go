package domain

import "time"

// Gift is a purchasable gift definition. StreamerID == 0 means the gift is
// global; otherwise it can only be sent on that streamer's streams.
// Inactive gifts are not purchasable.
type Gift struct {
	ID          int64     `db:"id" json:"id"`
	StreamerID  int64     `db:"streamer_id" json:"streamer_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	CostCoins   int64     `db:"cost_coins" json:"cost_coins"`
	PointsGiven int64     `db:"points_given" json:"points_given"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GiftSend is the immutable record of one gift-send transaction, written
// exactly once per successful send.
type GiftSend struct {
	ID          int64     `db:"id" json:"id"`
	GiftID      int64     `db:"gift_id" json:"gift_id"`
	StreamID    int64     `db:"stream_id" json:"stream_id"`
	SenderID    int64     `db:"sender_id" json:"sender_id"` // viewer profile id
	StreamerID  int64     `db:"streamer_id" json:"streamer_id"`
	Quantity    int       `db:"quantity" json:"quantity"`
	CoinsSpent  int64     `db:"coins_spent" json:"coins_spent"`
	PointsGiven int64     `db:"points_given" json:"points_given"`
	Message     string    `db:"message" json:"message,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
