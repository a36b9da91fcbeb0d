// Package timers provides a bank of named, cancellable delays and intervals.
//
// Each name has at most one live instance. Arming a name cancels whatever
// was armed under it before, so the most recent request always wins. Fires
// are handed to a post function (normally the owner's event loop) together
// with a generation token; a fire whose generation is no longer current is
// dropped, which makes cancellation safe against callbacks already in
// flight.
package timers

import (
	"sort"
	"sync"
	"time"
)

// Name identifies a timer slot in the bank.
type Name string

const (
	AutoRotate Name = "autoRotate"
	Inactivity Name = "inactivity"
	Guide      Name = "guide"
	GuideHide  Name = "guideHide"
	TextSettle Name = "textSettle"
	Crossfade  Name = "crossfade"
	ChatClose  Name = "chatClose"
	ChatPacing Name = "chatPacing"
)

type BankOption func(*Bank)

// WithArmHook registers a function called after every arm.
func WithArmHook(hook func(name Name, delay time.Duration, periodic bool)) BankOption {
	return func(b *Bank) {
		if hook != nil {
			b.onArm = hook
		}
	}
}

// WithStopHook registers a function called when a live timer is cancelled.
func WithStopHook(hook func(name Name)) BankOption {
	return func(b *Bank) {
		if hook != nil {
			b.onStop = hook
		}
	}
}

type Bank struct {
	clock Clock
	post  func(func())

	mu         sync.Mutex
	entries    map[Name]*entry
	generation uint64

	onArm  func(Name, time.Duration, bool)
	onStop func(Name)
}

type entry struct {
	timer      Timer
	generation uint64
	periodic   bool
	interval   time.Duration
	fn         func()
}

// NewBank creates a bank on clock. Fires are delivered through post; a nil
// post runs callbacks directly on the clock's goroutine.
func NewBank(clock Clock, post func(func()), opts ...BankOption) *Bank {
	if clock == nil {
		clock = RealClock()
	}
	if post == nil {
		post = func(job func()) { job() }
	}

	bank := &Bank{
		clock:   clock,
		post:    post,
		entries: map[Name]*entry{},
		onArm:   func(Name, time.Duration, bool) {},
		onStop:  func(Name) {},
	}
	for _, opt := range opts {
		opt(bank)
	}
	return bank
}

// After arms a one-shot timer, replacing any live timer with the same name.
func (b *Bank) After(name Name, delay time.Duration, fn func()) {
	b.arm(name, delay, false, fn)
}

// Every arms a repeating timer, replacing any live timer with the same name.
func (b *Bank) Every(name Name, interval time.Duration, fn func()) {
	b.arm(name, interval, true, fn)
}

func (b *Bank) arm(name Name, delay time.Duration, periodic bool, fn func()) {
	if b == nil || fn == nil {
		return
	}

	b.mu.Lock()
	if previous, ok := b.entries[name]; ok {
		previous.timer.Stop()
	}
	e := &entry{periodic: periodic, interval: delay, fn: fn}
	b.schedule(name, e)
	b.entries[name] = e
	b.mu.Unlock()

	b.onArm(name, delay, periodic)
}

// schedule must be called with mu held.
func (b *Bank) schedule(name Name, e *entry) {
	b.generation++
	generation := b.generation
	e.generation = generation
	e.timer = b.clock.AfterFunc(e.interval, func() {
		b.post(func() { b.deliver(name, generation) })
	})
}

func (b *Bank) deliver(name Name, generation uint64) {
	b.mu.Lock()
	e, ok := b.entries[name]
	if !ok || e.generation != generation {
		b.mu.Unlock()
		return
	}
	if e.periodic {
		b.schedule(name, e)
	} else {
		delete(b.entries, name)
	}
	fn := e.fn
	b.mu.Unlock()

	fn()
}

// Stop cancels the named timer. It reports whether a live timer existed.
func (b *Bank) Stop(name Name) bool {
	if b == nil {
		return false
	}

	b.mu.Lock()
	e, ok := b.entries[name]
	if ok {
		e.timer.Stop()
		delete(b.entries, name)
	}
	b.mu.Unlock()

	if ok {
		b.onStop(name)
	}
	return ok
}

// StopAll cancels every live timer.
func (b *Bank) StopAll() {
	if b == nil {
		return
	}

	b.mu.Lock()
	stopped := make([]Name, 0, len(b.entries))
	for name, e := range b.entries {
		e.timer.Stop()
		stopped = append(stopped, name)
	}
	b.entries = map[Name]*entry{}
	b.mu.Unlock()

	sort.Slice(stopped, func(i, j int) bool { return stopped[i] < stopped[j] })
	for _, name := range stopped {
		b.onStop(name)
	}
}

// Active reports whether the named timer is live.
func (b *Bank) Active(name Name) bool {
	if b == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[name]
	return ok
}

// Names lists the live timers in lexical order.
func (b *Bank) Names() []Name {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	names := make([]Name, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	b.mu.Unlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
