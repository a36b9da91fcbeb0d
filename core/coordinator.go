// Package orchestration hosts the kiosk session coordinator: the single
// state machine that owns the idle carousel, the active question view and
// the chat, and that always finds its way back to idle.
//
// All state changes happen on one event loop goroutine. Public methods only
// enqueue requests, so they are safe to call from input handlers, the
// presence bridge and renderers alike.
package orchestration

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/themes"
	"github.com/koscakluka/ema-kiosk/core/timers"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Coordinator struct {
	mu sync.Mutex

	mode          events.Mode
	themes        []themes.Theme
	themeIndex    int
	direction     int
	textState     events.TextState
	currentText   string
	previousText  string
	transitioning bool
	chatClosing   bool
	style         themes.SessionStyle

	guideVisible  bool
	hasInteracted bool

	viewerPresent   bool
	presenceHealthy bool
	lastInteraction time.Time

	history navigationHistory
	resets  int

	clock    timers.Clock
	timers   *timers.Bank
	loop     *eventLoop
	chat     *chat.Session
	backend  chat.Backend
	script   *chat.Script
	archiver Archiver
	catalog  themes.Catalog
	rng      *rand.Rand
	timing   Timing

	handlers []func(events.Event)
	outbox   []events.Event

	async func(work func(context.Context) (string, error), done func(string, error))

	baseContext context.Context
	primed      atomic.Bool
	closeOnce   sync.Once
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		mode:        events.ModeIdle,
		direction:   1,
		clock:       timers.RealClock(),
		loop:        newEventLoop(),
		catalog:     themes.DefaultCatalog(),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		timing:      DefaultTiming(),
		baseContext: context.Background(),
	}
	c.async = c.runBackground

	for _, opt := range opts {
		opt(c)
	}

	c.timers = timers.NewBank(c.clock, func(job func()) { c.loop.Post(job) },
		timers.WithArmHook(func(name timers.Name, delay time.Duration, periodic bool) {
			c.emit(events.NewTimerArmed(string(name), delay, periodic))
		}),
		timers.WithStopHook(func(name timers.Name) {
			c.emit(events.NewTimerStopped(string(name)))
		}),
	)

	chatOptions := []chat.Option{
		chat.WithBackend(c.backend),
		chat.WithScheduler(c.timers),
		chat.WithRunner(func(work func(context.Context) (string, error), done func(string, error)) {
			c.async(work, done)
		}),
		chat.WithEmitter(c.emit),
		chat.WithOnEnded(c.onChatEnded),
		chat.WithNow(c.clock.Now),
		chat.WithPacing(chat.Pacing{
			TurnLimit:    c.timing.TurnLimit,
			MessageDelay: c.timing.MessageDelay,
			FinalPause:   c.timing.FinalPause,
		}),
	}
	if c.script != nil {
		chatOptions = append(chatOptions, chat.WithScript(*c.script))
	}
	c.chat = chat.NewSession(chatOptions...)

	c.themes = themes.Generate(c.rng, c.catalog)
	c.lastInteraction = c.clock.Now()

	return c
}

// Start enters idle and begins processing requests in the background.
func (c *Coordinator) Start(ctx context.Context, opts ...StartOption) bool {
	if c == nil {
		return false
	}

	options := StartOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if len(opts) > 0 {
		c.handlers = append(c.handlers, newCallbackEventEmitter(options))
	}

	if !c.prime(ctx) {
		return false
	}
	return c.loop.Start(c.process)
}

// prime queues the initial idle entry ahead of any request.
func (c *Coordinator) prime(ctx context.Context) bool {
	if !c.primed.CompareAndSwap(false, true) {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	c.baseContext = ctx
	c.mu.Unlock()

	return c.loop.Post(func() { c.enterIdle() })
}

// Close stops the loop and cancels every timer. Queued requests are dropped.
func (c *Coordinator) Close() {
	if c == nil {
		return
	}

	c.closeOnce.Do(func() {
		c.loop.Stop()
		c.loop.AwaitDone()

		c.mu.Lock()
		c.timers.StopAll()
		if transcript, spoke := c.chat.Close(); spoke {
			c.handoff(transcript)
		}
		c.outbox = nil
		c.mu.Unlock()
	})
}

// AwaitDone blocks until the loop has exited after Close.
func (c *Coordinator) AwaitDone() {
	if c == nil {
		return
	}
	c.loop.AwaitDone()
}

// Handle enqueues an inbound event. It reports false once closed.
func (c *Coordinator) Handle(event events.Event) bool {
	if c == nil {
		return false
	}
	return c.loop.Ingest(event)
}

func (c *Coordinator) Advance(direction int) {
	c.Handle(events.NewAdvanceRequested(direction))
}

func (c *Coordinator) Activate() {
	c.Handle(events.NewActivateRequested())
}

func (c *Coordinator) Back(source events.BackSource) {
	c.Handle(events.NewBackRequested(source))
}

func (c *Coordinator) Interact() {
	c.Handle(events.NewInteractionObserved())
}

func (c *Coordinator) Reset() {
	c.Handle(events.NewResetRequested("requested"))
}

func (c *Coordinator) Submit(text string) {
	c.Handle(events.NewChatSubmitted(text))
}

func (c *Coordinator) PresenceChanged(present bool) {
	c.Handle(events.NewViewerPresenceChanged(present))
}

func (c *Coordinator) ChannelChanged(healthy bool) {
	c.Handle(events.NewPresenceChannelChanged(healthy))
}

func (c *Coordinator) Swipe(direction int) {
	c.Handle(events.NewViewerSwiped(direction))
}

func (c *Coordinator) process(item loopItem) {
	c.mu.Lock()
	baseCtx := c.baseContext
	c.mu.Unlock()

	ctx, span := tracer.Start(baseCtx, "process session event")
	defer span.End()

	queuedTime := time.Since(item.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(
		attribute.Float64("session.queued_time", queuedTime),
		attribute.Int("session.queue_depth", c.loop.queuedCount()),
	))
	if item.event != nil {
		span.SetAttributes(attribute.String("session.event", string(item.event.Kind())))
	}

	pending, err := c.apply(ctx, item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "session event failed", "error", err)
	}

	c.publish(pending)
}

func (c *Coordinator) apply(ctx context.Context, item loopItem) (pending []events.Event, err error) {
	c.mu.Lock()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("session handler panicked: %v", recovered)
		}
		pending = c.outbox
		c.outbox = nil
		c.mu.Unlock()
	}()

	if item.job != nil {
		item.job()
		return nil, nil
	}
	c.respondToEvent(ctx, item.event)
	return nil, nil
}

// State is a point-in-time copy of the coordinator's observable state.
type State struct {
	Mode            events.Mode
	Themes          []themes.Theme
	ThemeIndex      int
	Direction       int
	TextState       events.TextState
	CurrentText     string
	PreviousText    string
	Transitioning   bool
	ChatOpen        bool
	ChatClosing     bool
	ChatBusy        bool
	ChatTurns       int
	ChatMessages    []chat.Message
	Style           themes.SessionStyle
	GuideVisible    bool
	ViewerPresent   bool
	PresenceHealthy bool
	HistoryDepth    int
	LastInteraction time.Time
	Resets          int
	ActiveTimers    []timers.Name
}

func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Mode:            c.mode,
		Themes:          slices.Clone(c.themes),
		ThemeIndex:      c.themeIndex,
		Direction:       c.direction,
		TextState:       c.textState,
		CurrentText:     c.currentText,
		PreviousText:    c.previousText,
		Transitioning:   c.transitioning,
		ChatOpen:        c.chat.IsOpen(),
		ChatClosing:     c.chatClosing,
		ChatBusy:        c.chat.IsBusy(),
		ChatTurns:       c.chat.Turns(),
		ChatMessages:    c.chat.Messages(),
		Style:           c.style,
		GuideVisible:    c.guideVisible,
		ViewerPresent:   c.viewerPresent,
		PresenceHealthy: c.presenceHealthy,
		HistoryDepth:    c.history.depth(),
		LastInteraction: c.lastInteraction,
		Resets:          c.resets,
		ActiveTimers:    c.timers.Names(),
	}
}

// runBackground performs backend work off the loop and posts the result
// back onto it.
func (c *Coordinator) runBackground(work func(context.Context) (string, error), done func(string, error)) {
	ctx, cancel := context.WithTimeout(c.baseContext, c.timing.BackendTimeout)

	go func() {
		defer cancel()

		var result string
		err := panicSafeNamedWorker("chat backend", func(ctx context.Context) error {
			var err error
			result, err = work(ctx)
			return err
		})(ctx)
		if err != nil {
			logger.WarnContext(ctx, "chat backend call failed", "error", err)
		}

		c.loop.Post(func() { done(result, err) })
	}()
}

// handoff passes a transcript to the archiver without waiting for it.
func (c *Coordinator) handoff(transcript chat.Transcript) {
	if c.archiver == nil {
		return
	}

	archiver := c.archiver
	ctx := context.WithoutCancel(c.baseContext)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		ctx, span := tracer.Start(ctx, "archive transcript")
		defer span.End()

		if err := archiver.Save(ctx, transcript); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "failed to archive conversation", "reason", transcript.Reason, "error", err)
		}
	}()
}
