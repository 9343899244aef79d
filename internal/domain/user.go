package domain

import "time"

// Role of an account. A user may additionally own a viewer or streamer
// profile (or both, once a streamer starts sending gifts).
const (
	RoleViewer   = "viewer"
	RoleStreamer = "streamer"
)

type User struct {
	ID          int64     `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Role        string    `db:"role" json:"role"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
