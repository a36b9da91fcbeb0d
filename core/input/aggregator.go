// Package input normalises raw viewer input (keys, wheel, touch and scene
// clicks) into the small set of intents the session coordinator understands.
// The aggregator does not know the current mode; intents that make no sense
// in a mode are ignored by the coordinator.
package input

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/koscakluka/ema-kiosk/core/events"
)

// Sink receives intents. The session coordinator implements it.
type Sink interface {
	Advance(direction int)
	Activate()
	Back(source events.BackSource)
	Interact()
}

type Option func(*Aggregator)

// WithWheelThreshold sets the minimum wheel delta that counts as a step.
func WithWheelThreshold(threshold float64) Option {
	return func(a *Aggregator) {
		if threshold > 0 {
			a.wheelThreshold = threshold
		}
	}
}

// WithWheelCooldown sets the minimum time between two accepted wheel steps.
func WithWheelCooldown(cooldown time.Duration) Option {
	return func(a *Aggregator) {
		if cooldown >= 0 {
			a.wheelCooldown = cooldown
		}
	}
}

// WithSwipeThreshold sets the minimum horizontal travel of a swipe.
func WithSwipeThreshold(threshold float64) Option {
	return func(a *Aggregator) {
		if threshold > 0 {
			a.swipeThreshold = threshold
		}
	}
}

// WithNow overrides the time source used for the wheel cooldown.
func WithNow(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

const (
	DefaultWheelThreshold = 40
	DefaultWheelCooldown  = 700 * time.Millisecond
	DefaultSwipeThreshold = 60
)

type Aggregator struct {
	sink Sink
	now  func() time.Time

	wheelThreshold float64
	wheelCooldown  time.Duration
	swipeThreshold float64

	mu         sync.Mutex
	lastWheel  time.Time
	touchStart *point
}

type point struct{ x, y float64 }

func NewAggregator(sink Sink, opts ...Option) *Aggregator {
	a := &Aggregator{
		sink:           sink,
		now:            time.Now,
		wheelThreshold: DefaultWheelThreshold,
		wheelCooldown:  DefaultWheelCooldown,
		swipeThreshold: DefaultSwipeThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key maps a key name to an intent. Names follow the terminal and DOM
// conventions ("enter", "Enter", " ", "space", "left", "ArrowLeft", ...).
func (a *Aggregator) Key(key string) {
	if a == nil || a.sink == nil {
		return
	}

	switch normaliseKey(key) {
	case "space", "enter":
		a.sink.Activate()
	case "left", "a":
		a.sink.Advance(-1)
	case "right", "d":
		a.sink.Advance(1)
	case "esc":
		a.sink.Back(events.BackFromKey)
	default:
		a.sink.Interact()
	}
}

func normaliseKey(key string) string {
	if key == " " {
		return "space"
	}

	switch k := strings.ToLower(key); k {
	case "arrowleft":
		return "left"
	case "arrowright":
		return "right"
	case "escape":
		return "esc"
	case "return":
		return "enter"
	default:
		return k
	}
}

// Wheel turns a scroll delta into at most one advance per cooldown window.
// The dominant axis decides the direction; positive deltas move forward.
func (a *Aggregator) Wheel(deltaX, deltaY float64) {
	if a == nil || a.sink == nil {
		return
	}

	delta := deltaY
	if math.Abs(deltaX) > math.Abs(deltaY) {
		delta = deltaX
	}

	if math.Abs(delta) <= a.wheelThreshold {
		a.sink.Interact()
		return
	}

	a.mu.Lock()
	now := a.now()
	if !a.lastWheel.IsZero() && now.Sub(a.lastWheel) < a.wheelCooldown {
		a.mu.Unlock()
		a.sink.Interact()
		return
	}
	a.lastWheel = now
	a.mu.Unlock()

	a.sink.Advance(sign(delta))
}

// TouchStart records the start of a touch gesture.
func (a *Aggregator) TouchStart(x, y float64) {
	if a == nil {
		return
	}

	a.mu.Lock()
	a.touchStart = &point{x: x, y: y}
	a.mu.Unlock()
}

// TouchEnd completes a touch gesture. A horizontal swipe past the threshold
// advances (swiping left moves forward); anything shorter is a tap.
func (a *Aggregator) TouchEnd(x, y float64) {
	if a == nil || a.sink == nil {
		return
	}

	a.mu.Lock()
	start := a.touchStart
	a.touchStart = nil
	a.mu.Unlock()

	if start == nil {
		a.sink.Interact()
		return
	}

	dx := x - start.x
	dy := y - start.y
	if math.Abs(dx) > a.swipeThreshold && math.Abs(dx) > math.Abs(dy) {
		a.sink.Advance(-sign(dx))
		return
	}
	a.sink.Interact()
}

// TargetKind identifies what a scene click landed on.
type TargetKind int

const (
	TargetBackground TargetKind = iota
	TargetPrevious
	TargetNext
	TargetTheme
)

// Target is the object under a scene click. For TargetTheme, Index is the
// clicked theme and Current the selected one.
type Target struct {
	Kind    TargetKind
	Index   int
	Current int
}

// Click maps a scene click to an intent.
func (a *Aggregator) Click(target Target) {
	if a == nil || a.sink == nil {
		return
	}

	switch target.Kind {
	case TargetPrevious:
		a.sink.Advance(-1)
	case TargetNext:
		a.sink.Advance(1)
	case TargetTheme:
		if target.Index == target.Current {
			a.sink.Activate()
			return
		}
		a.sink.Advance(sign(float64(target.Index - target.Current)))
	default:
		a.sink.Activate()
	}
}

// HistoryPop reports a back navigation from the host's history stack.
func (a *Aggregator) HistoryPop() {
	if a == nil || a.sink == nil {
		return
	}
	a.sink.Back(events.BackFromHistory)
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
