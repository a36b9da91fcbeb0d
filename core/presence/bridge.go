// Package presence connects the kiosk to the vision service that reports
// whether a viewer stands in front of the exhibit.
//
// The bridge keeps a websocket open, reconnecting with capped exponential
// backoff, and forwards changes to a Sink. It never reports the same
// presence value twice in a row and reports "not present" whenever the
// link drops, so consumers fall back to timeout-only behaviour.
package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
)

// Sink receives presence signals. The session coordinator implements it.
type Sink interface {
	PresenceChanged(present bool)
	ChannelChanged(healthy bool)
	Swipe(direction int)
}

const (
	DefaultURL         = "ws://localhost:12345"
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultMaxAttempts = 5
	DefaultStaleAfter  = 5 * time.Minute
)

type Option func(*Bridge)

func WithURL(url string) Option {
	return func(b *Bridge) {
		if url != "" {
			b.url = url
		}
	}
}

func WithBackoff(base, max time.Duration, maxAttempts int) Option {
	return func(b *Bridge) {
		if base > 0 {
			b.baseDelay = base
		}
		if max > 0 {
			b.maxDelay = max
		}
		if maxAttempts > 0 {
			b.maxAttempts = maxAttempts
		}
	}
}

// WithStaleAfter recycles a connection once it has been open this long.
// Zero disables recycling.
func WithStaleAfter(staleAfter time.Duration) Option {
	return func(b *Bridge) {
		if staleAfter >= 0 {
			b.staleAfter = staleAfter
		}
	}
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(b *Bridge) {
		if dialer != nil {
			b.dialer = dialer
		}
	}
}

type Bridge struct {
	url         string
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
	staleAfter  time.Duration
	dialer      *websocket.Dialer

	sink Sink

	mu       sync.Mutex
	present  *bool
	healthy  bool
	attempts int

	startOnce sync.Once
	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

func NewBridge(sink Sink, opts ...Option) *Bridge {
	b := &Bridge{
		url:         DefaultURL,
		baseDelay:   DefaultBaseDelay,
		maxDelay:    DefaultMaxDelay,
		maxAttempts: DefaultMaxAttempts,
		staleAfter:  DefaultStaleAfter,
		dialer:      &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		sink:        sink,
		closeCh:     make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start runs the connection loop in the background until ctx is done or
// Close is called.
func (b *Bridge) Start(ctx context.Context) {
	if b == nil {
		return
	}

	b.startOnce.Do(func() {
		go func() {
			defer close(b.done)
			b.run(ctx)
		}()
	})
}

func (b *Bridge) Close() {
	if b == nil {
		return
	}
	b.closeOnce.Do(func() { close(b.closeCh) })
}

// AwaitDone blocks until the connection loop exited. It returns at once if
// the bridge was never started.
func (b *Bridge) AwaitDone() {
	if b == nil {
		return
	}

	started := true
	b.startOnce.Do(func() {
		started = false
		close(b.done)
	})
	if started {
		<-b.done
	}
}

func (b *Bridge) Healthy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.healthy
}

func (b *Bridge) run(ctx context.Context) {
	for {
		if b.stopped(ctx) {
			return
		}

		conn, err := b.connect(ctx)
		if err != nil {
			delay := b.nextDelay()
			logger.DebugContext(ctx, "presence connection failed", "url", b.url, "retry_in", delay, "error", err)
			if !b.wait(ctx, delay) {
				return
			}
			continue
		}

		b.mu.Lock()
		b.attempts = 0
		b.mu.Unlock()

		b.setHealthy(true)
		b.serve(ctx, conn)
		b.setHealthy(false)
	}
}

func (b *Bridge) connect(ctx context.Context) (*websocket.Conn, error) {
	ctx, span := tracer.Start(ctx, "presence connect")
	defer span.End()
	span.SetAttributes(attribute.String("presence.url", b.url))

	conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return conn, nil
}

// nextDelay advances the attempt counter. Past the attempt limit the
// counter starts over after one maximum wait.
func (b *Bridge) nextDelay() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attempts++
	if b.attempts > b.maxAttempts {
		b.attempts = 0
		return b.maxDelay
	}
	return Backoff(b.attempts, b.baseDelay, b.maxDelay)
}

func (b *Bridge) serve(ctx context.Context, conn *websocket.Conn) {
	served := make(chan struct{})
	defer close(served)

	go func() {
		var stale <-chan time.Time
		if b.staleAfter > 0 {
			timer := time.NewTimer(b.staleAfter)
			defer timer.Stop()
			stale = timer.C
		}

		select {
		case <-ctx.Done():
		case <-b.closeCh:
		case <-stale:
			logger.InfoContext(ctx, "recycling stale presence connection", "after", b.staleAfter)
		case <-served:
			return
		}
		_ = conn.Close()
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !b.stopped(ctx) && !errors.Is(err, websocket.ErrCloseSent) {
				logger.DebugContext(ctx, "presence connection lost", "error", err)
			}
			return
		}

		message, err := parseMessage(data)
		if err != nil {
			logger.WarnContext(ctx, "ignoring presence message", "error", err)
			continue
		}
		b.handle(message)
	}
}

func (b *Bridge) handle(message Message) {
	if message.ViewerPresent != nil {
		present := *message.ViewerPresent

		b.mu.Lock()
		changed := b.present == nil || *b.present != present
		if changed {
			b.present = &present
		}
		b.mu.Unlock()

		if changed && b.sink != nil {
			b.sink.PresenceChanged(present)
		}
	}

	if direction, ok := swipeDirection(message.SwipeDirection); ok && b.sink != nil {
		b.sink.Swipe(direction)
	}
}

func (b *Bridge) setHealthy(healthy bool) {
	b.mu.Lock()
	if b.healthy == healthy {
		b.mu.Unlock()
		return
	}
	b.healthy = healthy
	wasPresent := b.present != nil && *b.present
	if !healthy {
		b.present = nil
	}
	b.mu.Unlock()

	if b.sink == nil {
		return
	}
	b.sink.ChannelChanged(healthy)
	if !healthy && wasPresent {
		b.sink.PresenceChanged(false)
	}
}

func (b *Bridge) wait(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-b.closeCh:
		return false
	case <-timer.C:
		return true
	}
}

func (b *Bridge) stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-b.closeCh:
		return true
	default:
		return false
	}
}
