package orchestration

import (
	"time"

	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/timers"
)

// markInteraction slides the inactivity window. Must be called with mu
// held.
func (c *Coordinator) markInteraction() {
	c.lastInteraction = c.clock.Now()
	if c.mode == events.ModeIdle {
		c.dismissGuide()
	}
}

func (c *Coordinator) armInactivity() {
	c.lastInteraction = c.clock.Now()
	c.timers.Every(timers.Inactivity, c.timing.InactivityCheck, c.checkInactivity)
}

func (c *Coordinator) inactivityTimeout() time.Duration {
	if c.mode == events.ModeChat {
		return c.timing.ChatTimeout
	}
	return c.timing.ActiveTimeout
}

// checkInactivity resets the session once the per-mode timeout has passed
// without interaction. A viewer reported by a healthy presence channel
// keeps the window open.
func (c *Coordinator) checkInactivity() {
	if c.mode == events.ModeIdle {
		c.timers.Stop(timers.Inactivity)
		return
	}

	now := c.clock.Now()
	if c.presenceHealthy && c.viewerPresent {
		c.lastInteraction = now
		return
	}

	if now.Sub(c.lastInteraction) >= c.inactivityTimeout() {
		c.reset("inactivity")
	}
}
