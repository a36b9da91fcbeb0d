package orchestration

import "github.com/koscakluka/ema-kiosk/core/events"

// navigationHistory mirrors the mode as a stack of levels above idle, so
// that hosts with a back gesture see one entry per level.
type navigationHistory struct {
	levels []events.Mode
}

func (h *navigationHistory) depth() int {
	return len(h.levels)
}

// moveTo pushes or pops until the stack matches mode.
func (h *navigationHistory) moveTo(mode events.Mode) (pushed []events.Mode, popped int) {
	target := mode.Depth()
	for len(h.levels) > target {
		h.levels = h.levels[:len(h.levels)-1]
		popped++
	}
	for len(h.levels) < target {
		level := events.Mode(len(h.levels) + 1)
		h.levels = append(h.levels, level)
		pushed = append(pushed, level)
	}
	return pushed, popped
}

// setMode switches mode and keeps history in step. Must be called with mu
// held.
func (c *Coordinator) setMode(mode events.Mode) {
	previous := c.mode
	if previous != mode {
		c.mode = mode
		c.emit(events.NewModeChanged(mode, previous))
	}

	pushed, popped := c.history.moveTo(mode)
	if len(pushed) > 0 || popped > 0 {
		c.emit(events.NewHistoryChanged(c.history.depth(), pushed, popped))
	}
}
