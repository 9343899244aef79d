package ws

// Event names pushed to stream subscribers.
const (
	EventConnected       = "connected"
	EventChatMessage     = "chat_message"
	EventGiftSent        = "gift_sent"
	EventViewerLevelUp   = "viewer_level_up"
	EventStreamerLevelUp = "streamer_level_up"
)

// Envelope is the wire format of every pushed event.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
