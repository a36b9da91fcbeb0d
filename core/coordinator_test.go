package orchestration

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/llms"
	"github.com/koscakluka/ema-kiosk/core/themes"
	"github.com/koscakluka/ema-kiosk/core/timers"
	"github.com/koscakluka/ema-kiosk/core/timers/timerstest"
)

type chatBackendStub struct {
	mu      sync.Mutex
	opening string
	reply   string
	replies [][]llms.Message
}

func (b *chatBackendStub) InitialQuestion(context.Context, string) (string, error) {
	return b.opening, nil
}

func (b *chatBackendStub) Reply(_ context.Context, _ string, _ string, history []llms.Message) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = append(b.replies, history)
	return b.reply, nil
}

type archiverStub struct {
	saved chan chat.Transcript
}

func (a *archiverStub) Save(_ context.Context, transcript chat.Transcript) error {
	a.saved <- transcript
	return nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) count(kind events.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, event := range r.events {
		if event.Kind() == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) mark() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *eventRecorder) armedSince(mark int, name timers.Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events[mark:] {
		if armed, ok := event.(events.TimerArmed); ok && armed.Name == string(name) {
			return true
		}
	}
	return false
}

type rig struct {
	t        *testing.T
	clock    *timerstest.Clock
	c        *Coordinator
	backend  *chatBackendStub
	archiver *archiverStub
	events   *eventRecorder
}

// newRig builds a coordinator that is driven by hand: nothing runs until
// pump or advance is called.
func newRig(t *testing.T, opts ...CoordinatorOption) *rig {
	t.Helper()

	r := &rig{
		t:        t,
		clock:    timerstest.NewClock(time.Unix(1_700_000_000, 0)),
		backend:  &chatBackendStub{opening: "What did you eat today?", reply: "That sounds lovely."},
		archiver: &archiverStub{saved: make(chan chat.Transcript, 4)},
		events:   &eventRecorder{},
	}

	base := []CoordinatorOption{
		WithClock(r.clock),
		WithRandomSource(rand.New(rand.NewPCG(7, 11))),
		WithChatBackend(r.backend),
		WithArchiver(r.archiver),
		WithEventHandler(r.events.record),
	}
	r.c = NewCoordinator(append(base, opts...)...)
	r.c.async = func(work func(context.Context) (string, error), done func(string, error)) {
		done(work(context.Background()))
	}

	if !r.c.prime(context.Background()) {
		t.Fatalf("expected coordinator to prime")
	}
	r.pump()
	return r
}

func (r *rig) pump() {
	for {
		select {
		case item := <-r.c.loop.queue:
			r.c.process(item)
		default:
			return
		}
	}
}

func (r *rig) advance(d time.Duration) {
	const step = 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		r.clock.Advance(step)
		r.pump()
	}
}

func (r *rig) do(action func(c *Coordinator)) {
	action(r.c)
	r.pump()
}

func (r *rig) state() State {
	return r.c.Snapshot()
}

func TestPrimeEntersIdleWithRotationAndGuide(t *testing.T) {
	r := newRig(t)

	state := r.state()
	if state.Mode != events.ModeIdle {
		t.Fatalf("expected idle, got %v", state.Mode)
	}
	if len(state.Themes) != themes.Count {
		t.Fatalf("expected %d themes, got %d", themes.Count, len(state.Themes))
	}
	if !slices.Equal(state.ActiveTimers, []timers.Name{timers.AutoRotate, timers.Guide}) {
		t.Fatalf("expected autoRotate and guide timers, got %v", state.ActiveTimers)
	}
}

func TestAutoRotateBouncesAcrossThemes(t *testing.T) {
	r := newRig(t)

	got := []int{r.state().ThemeIndex}
	for range 9 {
		r.advance(7 * time.Second)
		got = append(got, r.state().ThemeIndex)
	}

	expected := []int{0, 1, 2, 3, 4, 3, 2, 1, 0, 1}
	if !slices.Equal(got, expected) {
		t.Fatalf("expected sweep %v, got %v", expected, got)
	}
}

func TestIdleAdvanceOutOfRangeRestartsRotation(t *testing.T) {
	r := newRig(t)

	r.advance(5 * time.Second)
	mark := r.events.mark()
	r.do(func(c *Coordinator) { c.Advance(-1) })
	if index := r.state().ThemeIndex; index != 0 {
		t.Fatalf("expected index to stay 0, got %d", index)
	}
	if !r.events.armedSince(mark, timers.AutoRotate) {
		t.Fatalf("expected autoRotate to be rearmed")
	}

	r.advance(5 * time.Second)
	if index := r.state().ThemeIndex; index != 0 {
		t.Fatalf("expected rotation to be restarted, got index %d", index)
	}

	r.advance(2500 * time.Millisecond)
	if index := r.state().ThemeIndex; index != 1 {
		t.Fatalf("expected rotation to resume, got index %d", index)
	}
}

func TestIdleAdvanceMovesSelection(t *testing.T) {
	r := newRig(t)

	r.do(func(c *Coordinator) { c.Advance(1) })
	if index := r.state().ThemeIndex; index != 1 {
		t.Fatalf("expected index 1, got %d", index)
	}
	if r.state().Mode != events.ModeIdle {
		t.Fatalf("expected to stay idle")
	}
}

func TestActiveAdvanceMovesOneStepWhateverTheMagnitude(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })
	r.advance(2 * time.Second)

	r.do(func(c *Coordinator) { c.Advance(3) })
	if index := r.state().ThemeIndex; index != 1 {
		t.Fatalf("expected a single step to index 1, got %d", index)
	}

	r.advance(time.Second)
	r.do(func(c *Coordinator) { c.Advance(-7) })
	if index := r.state().ThemeIndex; index != 0 {
		t.Fatalf("expected a single step back to index 0, got %d", index)
	}
}

func TestActivateEntersActiveAndSettlesText(t *testing.T) {
	r := newRig(t)

	r.do(func(c *Coordinator) { c.Activate() })
	state := r.state()
	if state.Mode != events.ModeActive {
		t.Fatalf("expected active, got %v", state.Mode)
	}
	if state.TextState != events.TextEntering {
		t.Fatalf("expected entering text, got %v", state.TextState)
	}
	if state.CurrentText != state.Themes[0].Question {
		t.Fatalf("expected current text %q, got %q", state.Themes[0].Question, state.CurrentText)
	}
	if slices.Contains(state.ActiveTimers, timers.AutoRotate) {
		t.Fatalf("expected auto rotation to stop")
	}

	r.advance(1200 * time.Millisecond)
	if textState := r.state().TextState; textState != events.TextActive {
		t.Fatalf("expected active text, got %v", textState)
	}
}

func TestActiveAdvanceOutOfRangeIsNoop(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })
	r.advance(2 * time.Second)

	themeChanges := r.events.count(events.KindThemeChanged)
	r.do(func(c *Coordinator) { c.Advance(-1) })

	state := r.state()
	if state.ThemeIndex != 0 || state.Transitioning || state.TextState != events.TextActive {
		t.Fatalf("expected no change, got index %d transitioning %v text %v", state.ThemeIndex, state.Transitioning, state.TextState)
	}
	if slices.Contains(state.ActiveTimers, timers.Crossfade) {
		t.Fatalf("expected no crossfade timer")
	}
	if got := r.events.count(events.KindThemeChanged); got != themeChanges {
		t.Fatalf("expected no theme change events, got %d new", got-themeChanges)
	}
}

func TestActiveAdvanceCrossfadesAndIgnoresRequestsMeanwhile(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })
	r.advance(2 * time.Second)
	first := r.state().Themes[0].Question

	r.do(func(c *Coordinator) {
		c.Advance(1)
		c.Advance(1)
	})

	state := r.state()
	if state.ThemeIndex != 1 {
		t.Fatalf("expected index 1, got %d", state.ThemeIndex)
	}
	if !state.Transitioning || state.TextState != events.TextTransitioning {
		t.Fatalf("expected transition, got transitioning %v text %v", state.Transitioning, state.TextState)
	}
	if state.PreviousText != first {
		t.Fatalf("expected previous text %q, got %q", first, state.PreviousText)
	}

	r.advance(950 * time.Millisecond)
	state = r.state()
	if state.Transitioning || state.TextState != events.TextActive {
		t.Fatalf("expected transition to finish, got transitioning %v text %v", state.Transitioning, state.TextState)
	}
}

func TestSecondActivateOpensChatWithGreetingAndQuestion(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) {
		c.Activate()
		c.Activate()
	})

	state := r.state()
	if state.Mode != events.ModeChat || !state.ChatOpen {
		t.Fatalf("expected open chat, got mode %v open %v", state.Mode, state.ChatOpen)
	}
	if state.HistoryDepth != 2 {
		t.Fatalf("expected history depth 2, got %d", state.HistoryDepth)
	}
	if state.Style.AssistantIcon == state.Style.UserIcon {
		t.Fatalf("expected distinct session icons")
	}

	r.advance(2100 * time.Millisecond)
	messages := r.state().ChatMessages
	if len(messages) != 2 {
		t.Fatalf("expected greeting and question, got %d messages", len(messages))
	}
	if messages[0].Kind != chat.KindGreeting || messages[1].Kind != chat.KindQuestion {
		t.Fatalf("expected greeting then question, got %v then %v", messages[0].Kind, messages[1].Kind)
	}
	if messages[1].Text != r.backend.opening {
		t.Fatalf("expected backend opening, got %q", messages[1].Text)
	}
}

func TestConversationEndsInFreshIdleSession(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Advance(1) })
	r.do(func(c *Coordinator) {
		c.Activate()
		c.Activate()
	})
	r.advance(2100 * time.Millisecond)

	for i := range 3 {
		r.do(func(c *Coordinator) { c.Submit("memory") })
		if i < 2 {
			r.advance(2100 * time.Millisecond)
		}
	}
	if len(r.backend.replies) != 2 {
		t.Fatalf("expected 2 backend replies, got %d", len(r.backend.replies))
	}
	if got := len(r.backend.replies[1]); got != 3 {
		t.Fatalf("expected prior history of 3 messages, got %d", got)
	}

	r.advance(15 * time.Second)

	state := r.state()
	if state.Mode != events.ModeIdle || state.ChatOpen {
		t.Fatalf("expected idle without chat, got mode %v open %v", state.Mode, state.ChatOpen)
	}
	if state.ThemeIndex != 0 {
		t.Fatalf("expected index 0, got %d", state.ThemeIndex)
	}
	if state.Resets != 1 {
		t.Fatalf("expected one reset, got %d", state.Resets)
	}
	if state.HistoryDepth != 0 {
		t.Fatalf("expected empty history, got %d", state.HistoryDepth)
	}
	if r.events.count(events.KindThemesRegenerated) != 1 {
		t.Fatalf("expected themes to be regenerated once")
	}
	if r.events.count(events.KindChatEnded) != 1 {
		t.Fatalf("expected one chat end")
	}

	select {
	case transcript := <-r.archiver.saved:
		if transcript.Turns != 3 {
			t.Fatalf("expected 3 archived turns, got %d", transcript.Turns)
		}
		if transcript.Reason != "ended" {
			t.Fatalf("expected ended transcript, got %q", transcript.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for archive")
	}
}

func TestResetIsIdempotentAndCancelsTimers(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) {
		c.Activate()
		c.Activate()
	})

	r.do(func(c *Coordinator) {
		c.Reset()
		c.Reset()
	})

	state := r.state()
	if state.Mode != events.ModeIdle || state.ChatOpen || state.ChatClosing {
		t.Fatalf("expected clean idle, got mode %v open %v closing %v", state.Mode, state.ChatOpen, state.ChatClosing)
	}
	if state.Resets != 2 {
		t.Fatalf("expected 2 resets, got %d", state.Resets)
	}
	if !slices.Equal(state.ActiveTimers, []timers.Name{timers.AutoRotate, timers.Guide}) {
		t.Fatalf("expected only idle timers, got %v", state.ActiveTimers)
	}

	appended := r.events.count(events.KindChatMessageAppended)
	r.advance(3 * time.Second)
	if got := r.events.count(events.KindChatMessageAppended); got != appended {
		t.Fatalf("expected no late chat messages, got %d", got-appended)
	}
}

func TestInactivityResetsOnceWithoutPresence(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })

	r.advance(44 * time.Second)
	if r.state().Mode != events.ModeActive {
		t.Fatalf("expected to stay active before the timeout")
	}

	r.advance(2 * time.Second)
	if r.state().Mode != events.ModeIdle {
		t.Fatalf("expected inactivity reset")
	}

	r.advance(60 * time.Second)
	if resets := r.state().Resets; resets != 1 {
		t.Fatalf("expected exactly one reset, got %d", resets)
	}
}

func TestChatInactivityUsesLongerTimeout(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })

	r.advance(40 * time.Second)
	r.do(func(c *Coordinator) { c.Activate() })
	if r.state().Mode != events.ModeChat {
		t.Fatalf("expected chat to open")
	}

	r.advance(10 * time.Second)
	if r.state().Mode != events.ModeChat {
		t.Fatalf("expected the active window not to reset an open chat")
	}

	r.advance(90 * time.Second)
	if r.state().Mode != events.ModeChat {
		t.Fatalf("expected chat to outlast the active timeout")
	}

	r.advance(25 * time.Second)
	state := r.state()
	if state.Mode != events.ModeIdle {
		t.Fatalf("expected chat inactivity reset, got mode %v", state.Mode)
	}
	if state.Resets != 1 {
		t.Fatalf("expected exactly one reset, got %d", state.Resets)
	}
}

func TestPresentViewerHoldsSession(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) {
		c.ChannelChanged(true)
		c.PresenceChanged(true)
		c.Activate()
	})

	r.advance(100 * time.Second)
	if r.state().Mode != events.ModeActive {
		t.Fatalf("expected present viewer to hold the session")
	}

	r.do(func(c *Coordinator) { c.PresenceChanged(false) })
	r.advance(44 * time.Second)
	if r.state().Mode != events.ModeActive {
		t.Fatalf("expected window to restart from departure")
	}

	r.advance(2 * time.Second)
	if r.state().Mode != events.ModeIdle {
		t.Fatalf("expected reset after viewer left")
	}
}

func TestChannelLossFallsBackToTimeout(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) {
		c.ChannelChanged(true)
		c.PresenceChanged(true)
		c.Activate()
		c.ChannelChanged(false)
	})

	r.advance(46 * time.Second)
	if r.state().Mode != events.ModeIdle {
		t.Fatalf("expected timeout-only behaviour without a channel")
	}
}

func TestInteractionSlidesInactivityWindow(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })

	r.advance(30 * time.Second)
	r.do(func(c *Coordinator) { c.Interact() })
	r.advance(30 * time.Second)
	if r.state().Mode != events.ModeActive {
		t.Fatalf("expected interaction to extend the session")
	}

	r.advance(16 * time.Second)
	if r.state().Mode != events.ModeIdle {
		t.Fatalf("expected reset once the slid window passed")
	}
}

func TestBackWalksOneLevelAtATime(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Advance(1) })

	r.do(func(c *Coordinator) {
		c.Activate()
		c.Activate()
	})
	r.do(func(c *Coordinator) { c.Back(events.BackFromKey) })

	state := r.state()
	if state.Mode != events.ModeActive || !state.ChatClosing {
		t.Fatalf("expected closing chat in active, got mode %v closing %v", state.Mode, state.ChatClosing)
	}
	if state.HistoryDepth != 1 {
		t.Fatalf("expected history depth 1, got %d", state.HistoryDepth)
	}

	r.do(func(c *Coordinator) { c.Activate() })
	if r.state().Mode != events.ModeActive {
		t.Fatalf("expected activate to be ignored while closing")
	}

	r.advance(600 * time.Millisecond)
	if r.state().ChatClosing {
		t.Fatalf("expected close window to end")
	}

	r.do(func(c *Coordinator) { c.Back(events.BackFromHistory) })
	state = r.state()
	if state.Mode != events.ModeIdle {
		t.Fatalf("expected idle, got %v", state.Mode)
	}
	if state.Resets != 0 || state.ThemeIndex != 1 {
		t.Fatalf("expected plain idle entry at index 1, got %d resets at index %d", state.Resets, state.ThemeIndex)
	}
	if got := r.events.count(events.KindThemesRegenerated); got != 1 {
		t.Fatalf("expected a fresh theme set on return to idle, got %d", got)
	}

	r.do(func(c *Coordinator) { c.Back(events.BackFromHistory) })
	if resets := r.state().Resets; resets != 0 {
		t.Fatalf("expected history back in idle to be ignored, got %d resets", resets)
	}

	r.do(func(c *Coordinator) { c.Back(events.BackFromKey) })
	state = r.state()
	if state.Resets != 1 || state.ThemeIndex != 0 {
		t.Fatalf("expected key back in idle to reset to index 0, got %d resets at index %d", state.Resets, state.ThemeIndex)
	}
	if got := r.events.count(events.KindThemesRegenerated); got != 2 {
		t.Fatalf("expected reset in idle to regenerate themes, got %d", got)
	}
}

func TestGuideShowsAndHides(t *testing.T) {
	r := newRig(t)

	r.advance(4100 * time.Millisecond)
	if !r.state().GuideVisible {
		t.Fatalf("expected guide to show")
	}

	r.advance(8 * time.Second)
	if r.state().GuideVisible {
		t.Fatalf("expected guide to hide")
	}
	if r.events.count(events.KindGuideShown) != 1 || r.events.count(events.KindGuideHidden) != 1 {
		t.Fatalf("expected one show and one hide")
	}
}

func TestGuideSuppressedAfterInteraction(t *testing.T) {
	r := newRig(t)

	r.advance(time.Second)
	r.do(func(c *Coordinator) { c.Interact() })
	r.advance(5 * time.Second)

	if r.state().GuideVisible || r.events.count(events.KindGuideShown) != 0 {
		t.Fatalf("expected guide to stay hidden after interaction")
	}
}

func TestSwipeAdvancesSelection(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) { c.Activate() })
	r.advance(2 * time.Second)

	r.do(func(c *Coordinator) { c.Swipe(1) })
	if index := r.state().ThemeIndex; index != 1 {
		t.Fatalf("expected swipe to advance, got index %d", index)
	}
}

func TestSubmitOutsideChatIsIgnored(t *testing.T) {
	r := newRig(t)
	r.do(func(c *Coordinator) {
		c.Activate()
		c.Submit("hello")
	})

	if r.events.count(events.KindChatMessageAppended) != 0 {
		t.Fatalf("expected no chat messages outside chat")
	}
}

func TestHistoryTracksMode(t *testing.T) {
	r := newRig(t)

	depths := []int{r.state().HistoryDepth}
	r.do(func(c *Coordinator) { c.Activate() })
	depths = append(depths, r.state().HistoryDepth)
	r.do(func(c *Coordinator) { c.Activate() })
	depths = append(depths, r.state().HistoryDepth)
	r.do(func(c *Coordinator) { c.Reset() })
	depths = append(depths, r.state().HistoryDepth)

	if !slices.Equal(depths, []int{0, 1, 2, 0}) {
		t.Fatalf("expected depths [0 1 2 0], got %v", depths)
	}
}

func TestStartRunsLoopAndInvokesCallbacks(t *testing.T) {
	c := NewCoordinator(WithTiming(Timing{AutoRotate: 20 * time.Millisecond}))
	defer c.Close()

	var mu sync.Mutex
	var indices []int
	modes := make(chan events.Mode, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !c.Start(ctx,
		WithThemeChangedCallback(func(index int, _ themes.Theme) {
			mu.Lock()
			indices = append(indices, index)
			mu.Unlock()
		}),
		WithModeChangedCallback(func(mode, _ events.Mode) {
			select {
			case modes <- mode:
			default:
			}
		}),
	) {
		t.Fatalf("expected coordinator to start")
	}

	waitForCondition(t, 2*time.Second, "auto rotation", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(indices) >= 2
	})

	c.Activate()
	select {
	case mode := <-modes:
		if mode != events.ModeActive {
			t.Fatalf("expected active, got %v", mode)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for activation")
	}

	if c.Start(ctx) {
		t.Fatalf("expected second start to be rejected")
	}
}

func TestCloseRejectsFurtherRequests(t *testing.T) {
	c := NewCoordinator()
	if !c.Start(context.Background()) {
		t.Fatalf("expected coordinator to start")
	}

	c.Close()
	if c.Handle(events.NewActivateRequested()) {
		t.Fatalf("expected closed coordinator to reject events")
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
