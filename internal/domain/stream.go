package domain

import "time"

// Stream status.
const (
	StreamStatusIdle     = "idle"
	StreamStatusLive     = "live"
	StreamStatusFinished = "finished"
)

type Stream struct {
	ID         int64      `db:"id" json:"id"`
	StreamerID int64      `db:"streamer_id" json:"streamer_id"`
	Title      string     `db:"title" json:"title"`
	Status     string     `db:"status" json:"status"`
	IngestKey  string     `db:"ingest_key" json:"ingest_key,omitempty"`
	PushURL    string     `db:"push_url" json:"push_url,omitempty"`
	ViewURL    string     `db:"view_url" json:"view_url,omitempty"`
	StartedAt  *time.Time `db:"started_at" json:"started_at,omitempty"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// StreamListing is a stream row joined with the streamer's display fields,
// for the live feed.
type StreamListing struct {
	ID           int64      `json:"id"`
	StreamerID   int64      `json:"streamer_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ViewURL      string     `json:"view_url,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	StreamerName string     `json:"streamer_name"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
}

// StreamSession is one broadcast window of a stream. At most one session
// per stream may be open (EndedAt nil) at a time; closing fixes the
// duration in hours.
type StreamSession struct {
	ID            int64      `db:"id" json:"id"`
	StreamID      int64      `db:"stream_id" json:"stream_id"`
	StartedAt     time.Time  `db:"started_at" json:"started_at"`
	EndedAt       *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	DurationHours float64    `db:"duration_hours" json:"duration_hours"`
}
