package events

import "time"

const (
	// KindTimerArmed identifies a named timer being (re)armed.
	KindTimerArmed Kind = "timer.armed"
	// KindTimerStopped identifies a live named timer being cancelled.
	KindTimerStopped Kind = "timer.stopped"
)

// TimerArmed reports that a named timer was armed.
type TimerArmed struct {
	Base
	Name     string
	Delay    time.Duration
	Periodic bool
}

// NewTimerArmed creates a timer armed event.
func NewTimerArmed(name string, delay time.Duration, periodic bool) TimerArmed {
	return TimerArmed{Base: NewBase(KindTimerArmed), Name: name, Delay: delay, Periodic: periodic}
}

// TimerStopped reports that a live named timer was cancelled.
type TimerStopped struct {
	Base
	Name string
}

// NewTimerStopped creates a timer stopped event.
func NewTimerStopped(name string) TimerStopped {
	return TimerStopped{Base: NewBase(KindTimerStopped), Name: name}
}
