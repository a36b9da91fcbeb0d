package orchestration

import (
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/timers"
)

// startAutoRotate (re)arms the carousel sweep. Must be called with mu held.
func (c *Coordinator) startAutoRotate() {
	c.timers.Every(timers.AutoRotate, c.timing.AutoRotate, c.rotate)
}

// rotate moves one step of the bounce sweep 0,1,..,n-1,n-2,..,0,1,..
func (c *Coordinator) rotate() {
	if c.mode != events.ModeIdle || len(c.themes) < 2 {
		return
	}

	last := len(c.themes) - 1
	switch {
	case c.themeIndex >= last:
		c.direction = -1
	case c.themeIndex <= 0:
		c.direction = 1
	}

	next := min(max(c.themeIndex+c.direction, 0), last)
	c.selectTheme(next)
}

func (c *Coordinator) armGuide() {
	c.timers.After(timers.Guide, c.timing.GuideDelay, c.showGuide)
}

func (c *Coordinator) showGuide() {
	if c.mode != events.ModeIdle || c.hasInteracted || c.guideVisible {
		return
	}

	c.guideVisible = true
	c.emit(events.NewGuideShown())
	c.timers.After(timers.GuideHide, c.timing.GuideDuration, c.hideGuide)
}

func (c *Coordinator) hideGuide() {
	if !c.guideVisible {
		return
	}
	c.guideVisible = false
	c.emit(events.NewGuideHidden())
}

func (c *Coordinator) dismissGuide() {
	c.hasInteracted = true
	c.timers.Stop(timers.Guide)
	c.timers.Stop(timers.GuideHide)
	c.hideGuide()
}
