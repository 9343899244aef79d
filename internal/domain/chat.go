package domain

import "time"

// Chat message kinds.
const (
	ChatMessageText = "text"
	ChatMessageGift = "gift"
)

// ChatMessage is an append-only chat record. SenderLevel is the viewer's
// level at the moment of posting, kept for historical display; the profile
// level may move on afterwards.
type ChatMessage struct {
	ID          int64     `db:"id" json:"id"`
	StreamID    int64     `db:"stream_id" json:"stream_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"`
	Text        string    `db:"text" json:"text,omitempty"`
	GiftID      int64     `db:"gift_id" json:"gift_id,omitempty"`
	GiftSendID  int64     `db:"gift_send_id" json:"gift_send_id,omitempty"`
	SenderLevel int       `db:"sender_level" json:"sender_level"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Denormalized for read-back, joined from users.
	SenderName string `db:"sender_name" json:"sender_name,omitempty"`
	AvatarURL  string `db:"avatar_url" json:"avatar_url,omitempty"`
}
