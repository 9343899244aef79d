package ws

import (
	"encoding/json"
	"testing"
)

func testClient(streamID int64, buf int) *Client {
	return &Client{
		StreamID: streamID,
		Send:     make(chan []byte, buf),
		done:     make(chan struct{}),
	}
}

func recvType(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return env.Type
	default:
		t.Fatal("no message queued")
		return ""
	}
}

func TestHubPublishFanOut(t *testing.T) {
	h := NewHub()
	a := testClient(1, 8)
	b := testClient(1, 8)
	other := testClient(2, 8)

	h.Subscribe(1, a)
	h.Subscribe(1, b)
	h.Subscribe(2, other)

	h.Publish(1, EventChatMessage, ChatMessagePayload{MessageID: 7, StreamID: 1})

	if got := recvType(t, a); got != EventChatMessage {
		t.Fatalf("a got %q", got)
	}
	if got := recvType(t, b); got != EventChatMessage {
		t.Fatalf("b got %q", got)
	}
	select {
	case <-other.Send:
		t.Fatal("subscriber of another channel received the event")
	default:
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	c := testClient(1, 8)
	h.Subscribe(1, c)
	h.Unsubscribe(1, c)

	h.Publish(1, EventGiftSent, nil)

	select {
	case <-c.Send:
		t.Fatal("unsubscribed client received the event")
	default:
	}
	if n := h.Subscribers(1); n != 0 {
		t.Fatalf("subscribers = %d; want 0", n)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow := testClient(1, 1)
	fast := testClient(1, 8)
	h.Subscribe(1, slow)
	h.Subscribe(1, fast)

	// fill the slow client's buffer, then publish again
	h.Publish(1, EventChatMessage, nil)
	h.Publish(1, EventChatMessage, nil)

	if got := len(fast.Send); got != 2 {
		t.Fatalf("fast client queued %d messages; want 2", got)
	}
	if n := h.Subscribers(1); n != 1 {
		t.Fatalf("subscribers after drop = %d; want 1", n)
	}
	select {
	case <-slow.done:
	default:
		t.Fatal("slow client was not closed")
	}
}

func TestGreetOnlyReachesNewSubscriber(t *testing.T) {
	h := NewHub()
	existing := testClient(1, 8)
	h.Subscribe(1, existing)

	joined := testClient(1, 8)
	joined.hub = h
	h.Subscribe(1, joined)
	joined.greet()

	if got := recvType(t, joined); got != EventConnected {
		t.Fatalf("joined got %q", got)
	}
	select {
	case raw := <-existing.Send:
		t.Fatalf("existing subscriber received %s", raw)
	default:
	}
}

func TestHubPublishToEmptyChannel(t *testing.T) {
	h := NewHub()
	// must not panic or block
	h.Publish(99, EventStreamerLevelUp, StreamerLevelUpPayload{StreamID: 99, NewLevel: 2})
}
