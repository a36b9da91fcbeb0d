package orchestration

import (
	"context"
	"math/rand/v2"

	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/themes"
	"github.com/koscakluka/ema-kiosk/core/timers"
)

type CoordinatorOption func(*Coordinator)

// Archiver receives finished conversations. Saves run off the event loop
// and failures are only logged.
type Archiver interface {
	Save(ctx context.Context, transcript chat.Transcript) error
}

func WithClock(clock timers.Clock) CoordinatorOption {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTiming overrides the positive fields of timing; zero fields keep
// their defaults.
func WithTiming(timing Timing) CoordinatorOption {
	return func(c *Coordinator) {
		c.timing = c.timing.merge(timing)
	}
}

func WithChatBackend(backend chat.Backend) CoordinatorOption {
	return func(c *Coordinator) {
		c.backend = backend
	}
}

func WithChatScript(script chat.Script) CoordinatorOption {
	return func(c *Coordinator) {
		c.script = &script
	}
}

func WithArchiver(archiver Archiver) CoordinatorOption {
	return func(c *Coordinator) {
		c.archiver = archiver
	}
}

func WithThemeCatalog(catalog themes.Catalog) CoordinatorOption {
	return func(c *Coordinator) {
		c.catalog = catalog
	}
}

// WithRandomSource fixes the generator used for theme draws and session
// styles.
func WithRandomSource(rng *rand.Rand) CoordinatorOption {
	return func(c *Coordinator) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithEventHandler registers a handler for every outbound event. Handlers
// run on the event loop after the state lock is released and may call
// Snapshot.
func WithEventHandler(handler func(events.Event)) CoordinatorOption {
	return func(c *Coordinator) {
		if handler != nil {
			c.handlers = append(c.handlers, handler)
		}
	}
}

type StartOptions struct {
	onModeChanged   func(mode, previous events.Mode)
	onThemeChanged  func(index int, theme themes.Theme)
	onTextChanged   func(state events.TextState, current, previous string)
	onGuide         func(visible bool)
	onChatMessage   func(kind, role, text string)
	onChatTyping    func(typing bool)
	onSessionReset  func(reason string)
	onHistoryChange func(depth int)
}

type StartOption func(*StartOptions)

// WithModeChangedCallback registers a callback for every mode transition.
func WithModeChangedCallback(callback func(mode, previous events.Mode)) StartOption {
	return func(o *StartOptions) {
		o.onModeChanged = callback
	}
}

// WithThemeChangedCallback registers a callback for selection changes.
func WithThemeChangedCallback(callback func(index int, theme themes.Theme)) StartOption {
	return func(o *StartOptions) {
		o.onThemeChanged = callback
	}
}

// WithTextStateCallback registers a callback for question text phases.
func WithTextStateCallback(callback func(state events.TextState, current, previous string)) StartOption {
	return func(o *StartOptions) {
		o.onTextChanged = callback
	}
}

func WithGuideCallback(callback func(visible bool)) StartOption {
	return func(o *StartOptions) {
		o.onGuide = callback
	}
}

// WithChatMessageCallback registers a callback for each displayed chat
// line.
func WithChatMessageCallback(callback func(kind, role, text string)) StartOption {
	return func(o *StartOptions) {
		o.onChatMessage = callback
	}
}

func WithChatTypingCallback(callback func(typing bool)) StartOption {
	return func(o *StartOptions) {
		o.onChatTyping = callback
	}
}

func WithSessionResetCallback(callback func(reason string)) StartOption {
	return func(o *StartOptions) {
		o.onSessionReset = callback
	}
}

// WithHistoryCallback registers a callback for navigation depth changes,
// for hosts that mirror the stack into their own history.
func WithHistoryCallback(callback func(depth int)) StartOption {
	return func(o *StartOptions) {
		o.onHistoryChange = callback
	}
}
