package ws

import "time"

type ConnectedPayload struct {
	StreamID int64 `json:"stream_id"`
}

// ChatMessagePayload mirrors the post-message response plus the sender's
// display fields.
type ChatMessagePayload struct {
	MessageID   int64     `json:"message_id"`
	StreamID    int64     `json:"stream_id"`
	UserID      int64     `json:"user_id"`
	SenderName  string    `json:"sender_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Text        string    `json:"text"`
	SenderLevel int       `json:"sender_level"`
	CreatedAt   time.Time `json:"created_at"`
}

type GiftSentPayload struct {
	EventID     int64     `json:"event_id"`
	StreamID    int64     `json:"stream_id"`
	GiftID      int64     `json:"gift_id"`
	GiftName    string    `json:"gift_name"`
	Quantity    int       `json:"quantity"`
	CoinsSpent  int64     `json:"coins_spent"`
	PointsGiven int64     `json:"points_given"`
	Message     string    `json:"message,omitempty"`
	SenderName  string    `json:"sender_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	SenderLevel int       `json:"sender_level"`
	CreatedAt   time.Time `json:"created_at"`
}

type ViewerLevelUpPayload struct {
	StreamID   int64  `json:"stream_id"`
	UserID     int64  `json:"user_id"`
	SenderName string `json:"sender_name"`
	NewLevel   int    `json:"new_level"`
}

type StreamerLevelUpPayload struct {
	StreamID   int64   `json:"stream_id"`
	StreamerID int64   `json:"streamer_id"`
	NewLevel   int     `json:"new_level"`
	TotalHours float64 `json:"total_hours"`
}
