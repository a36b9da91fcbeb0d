package presence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingSink struct {
	mu       sync.Mutex
	presence []bool
	channel  []bool
	swipes   []int
}

func (s *recordingSink) PresenceChanged(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence = append(s.presence, present)
}

func (s *recordingSink) ChannelChanged(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = append(s.channel, healthy)
}

func (s *recordingSink) Swipe(direction int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipes = append(s.swipes, direction)
}

func (s *recordingSink) snapshot() (presence, channel []bool, swipes []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.presence...), append([]bool(nil), s.channel...), append([]int(nil), s.swipes...)
}

func newPresenceServer(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestBridgeForwardsOnlyPresenceChanges(t *testing.T) {
	release := make(chan struct{})
	url := newPresenceServer(t, func(conn *websocket.Conn) {
		for _, message := range []string{
			`{"viewer_present": true, "timestamp": "2024-11-20T10:00:00Z"}`,
			`{"viewer_present": true, "timestamp": "2024-11-20T10:00:01Z"}`,
			`{"viewer_present": true, "swipe_direction": "left"}`,
			`not json`,
			`{"viewer_present": false}`,
		} {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(message))
		}
		<-release
	})
	defer close(release)

	sink := &recordingSink{}
	bridge := NewBridge(sink, WithURL(url), WithBackoff(10*time.Millisecond, 50*time.Millisecond, 5))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bridge.Start(ctx)
	defer func() {
		bridge.Close()
		bridge.AwaitDone()
	}()

	waitForCondition(t, 2*time.Second, "presence changes", func() bool {
		presence, _, _ := sink.snapshot()
		return len(presence) == 2
	})

	presence, channel, swipes := sink.snapshot()
	if !presence[0] || presence[1] {
		t.Fatalf("expected presence true then false, got %v", presence)
	}
	if len(channel) != 1 || !channel[0] {
		t.Fatalf("expected channel to come up once, got %v", channel)
	}
	if len(swipes) != 1 || swipes[0] != 1 {
		t.Fatalf("expected one forward swipe, got %v", swipes)
	}
}

func TestBridgeKeepsPresenceOnGestureOnlyFrames(t *testing.T) {
	sink := &recordingSink{}
	bridge := NewBridge(sink)

	for _, frame := range []string{
		`{"viewer_present": true}`,
		`{"swipe_direction": "left"}`,
		`{"swipe_direction": "right", "timestamp": "2024-11-20T10:00:02Z"}`,
	} {
		message, err := parseMessage([]byte(frame))
		if err != nil {
			t.Fatalf("expected %s to parse, got %v", frame, err)
		}
		bridge.handle(message)
	}

	presence, _, swipes := sink.snapshot()
	if len(presence) != 1 || !presence[0] {
		t.Fatalf("expected a single arrival, got %v", presence)
	}
	if len(swipes) != 2 || swipes[0] != 1 || swipes[1] != -1 {
		t.Fatalf("expected forward then backward swipe, got %v", swipes)
	}
}

func TestBridgeReconnectsAfterServerClose(t *testing.T) {
	var mu sync.Mutex
	connections := 0
	url := newPresenceServer(t, func(conn *websocket.Conn) {
		mu.Lock()
		connections++
		first := connections == 1
		mu.Unlock()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"viewer_present": true}`))
		if first {
			return
		}
		time.Sleep(time.Second)
	})

	sink := &recordingSink{}
	bridge := NewBridge(sink, WithURL(url), WithBackoff(10*time.Millisecond, 50*time.Millisecond, 5))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bridge.Start(ctx)
	defer func() {
		bridge.Close()
		bridge.AwaitDone()
	}()

	waitForCondition(t, 2*time.Second, "reconnect", func() bool {
		_, channel, _ := sink.snapshot()
		return len(channel) >= 3
	})

	presence, channel, _ := sink.snapshot()
	if !channel[0] || channel[1] || !channel[2] {
		t.Fatalf("expected channel up, down, up, got %v", channel)
	}
	if len(presence) < 2 || !presence[0] || presence[1] {
		t.Fatalf("expected presence to drop with the link, got %v", presence)
	}
}

func TestBridgeWithoutServerNeverReportsHealthy(t *testing.T) {
	sink := &recordingSink{}
	bridge := NewBridge(sink, WithURL("ws://127.0.0.1:1"), WithBackoff(5*time.Millisecond, 10*time.Millisecond, 2))
	ctx, cancel := context.WithCancel(context.Background())
	bridge.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	bridge.AwaitDone()

	presence, channel, _ := sink.snapshot()
	if len(presence) != 0 || len(channel) != 0 {
		t.Fatalf("expected no signals without a server, got presence %v channel %v", presence, channel)
	}
	if bridge.Healthy() {
		t.Fatalf("expected bridge to be unhealthy")
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for i, want := range expected {
		if got := Backoff(i+1, time.Second, 10*time.Second); got != want {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestNextDelayStartsOverAfterAttemptLimit(t *testing.T) {
	bridge := NewBridge(nil, WithBackoff(time.Second, 10*time.Second, 3))

	delays := []time.Duration{}
	for range 5 {
		delays = append(delays, bridge.nextDelay())
	}

	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 10 * time.Second, time.Second}
	for i := range expected {
		if delays[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, delays)
		}
	}
}

func waitForCondition(t *testing.T, timeout time.Duration, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s", description)
}
