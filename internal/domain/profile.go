package domain

import "time"

// ViewerProfile carries the progression state of an account acting as a
// viewer: cumulative points and the level derived from them. Each user has
// at most one viewer profile (unique user_id); streamers get one lazily the
// first time they send a gift.
type ViewerProfile struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Level     int       `db:"level" json:"level"`
	Points    int64     `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StreamerProfile carries the progression state of a streamer account:
// cumulative broadcast hours and the level derived from them.
type StreamerProfile struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	ChannelSlug  string     `db:"channel_slug" json:"channel_slug"`
	ChannelTitle string     `db:"channel_title" json:"channel_title,omitempty"`
	Level        int        `db:"level" json:"level"`
	TotalHours   float64    `db:"total_hours" json:"total_hours"`
	LastStreamAt *time.Time `db:"last_stream_at" json:"last_stream_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
