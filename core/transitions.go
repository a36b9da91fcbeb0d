package orchestration

import (
	"cmp"

	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/themes"
	"github.com/koscakluka/ema-kiosk/core/timers"
)

// The transition methods below must be called on the loop with mu held.

func (c *Coordinator) activate() {
	switch c.mode {
	case events.ModeIdle:
		c.enterActive()
	case events.ModeActive:
		if c.chatClosing {
			return
		}
		c.openChat()
	}
}

func (c *Coordinator) enterActive() {
	c.timers.StopAll()
	c.hideGuide()

	c.transitioning = false
	c.setText(events.TextEntering, c.currentTheme().Question, "")
	c.setMode(events.ModeActive)

	c.timers.After(timers.TextSettle, c.timing.EnterSettle, func() {
		if c.textState == events.TextEntering {
			c.setText(events.TextActive, c.currentText, c.previousText)
		}
	})
	c.armInactivity()
}

func (c *Coordinator) openChat() {
	c.timers.StopAll()
	c.transitioning = false
	if c.textState != events.TextNone {
		c.setText(events.TextActive, c.currentText, c.previousText)
	}

	theme := c.currentTheme()
	c.style = themes.SelectSessionStyle(c.rng.Uint64())
	c.setMode(events.ModeChat)
	c.emit(events.NewChatOpened(theme.Question, theme.Color, c.style))

	c.armInactivity()
	c.chat.Open(theme.Question, theme.Color)
}

func (c *Coordinator) closeChat() {
	if transcript, spoke := c.chat.Close(); spoke {
		c.handoff(transcript)
	}

	c.timers.StopAll()
	c.setMode(events.ModeActive)
	c.chatClosing = true
	c.emit(events.NewChatClosing())

	c.timers.After(timers.ChatClose, c.timing.ChatClose, c.finishChatClose)
	c.armInactivity()
}

func (c *Coordinator) finishChatClose() {
	if !c.chatClosing {
		return
	}
	c.chatClosing = false
	c.emit(events.NewChatClosed())
}

// onChatEnded runs when the ending sequence has fully played.
func (c *Coordinator) onChatEnded(transcript chat.Transcript) {
	c.handoff(transcript)
	c.reset("chat ended")
}

func (c *Coordinator) advance(direction int) {
	direction = cmp.Compare(direction, 0)
	switch c.mode {
	case events.ModeIdle:
		if next := c.themeIndex + direction; direction != 0 && inRange(next, len(c.themes)) {
			c.selectTheme(next)
		}
		c.startAutoRotate()
	case events.ModeActive:
		if c.transitioning || direction == 0 {
			return
		}
		next := c.themeIndex + direction
		if !inRange(next, len(c.themes)) {
			return
		}

		c.transitioning = true
		c.selectTheme(next)
		c.setText(events.TextTransitioning, c.themes[next].Question, c.currentText)

		c.timers.After(timers.Crossfade, c.timing.Crossfade, func() {
			c.transitioning = false
			c.setText(events.TextActive, c.currentText, c.previousText)
		})
	}
}

func (c *Coordinator) back(source events.BackSource) {
	switch c.mode {
	case events.ModeChat:
		c.closeChat()
	case events.ModeActive:
		c.enterIdle()
	case events.ModeIdle:
		if source == events.BackFromKey {
			c.reset("cancel")
		}
	}
}

// enterIdle returns to the carousel. Leaving Active or Chat always draws a
// fresh theme set; the selection index is kept.
func (c *Coordinator) enterIdle() {
	leaving := c.mode != events.ModeIdle

	c.timers.StopAll()
	if transcript, spoke := c.chat.Close(); spoke {
		c.handoff(transcript)
	}
	c.finishChatClose()

	c.transitioning = false
	c.setText(events.TextNone, "", "")
	c.direction = 1
	c.hasInteracted = false
	c.hideGuide()
	c.setMode(events.ModeIdle)
	if leaving {
		c.regenerateThemes()
	}

	c.startAutoRotate()
	c.armGuide()
}

// reset is the single path back to a fresh idle session.
func (c *Coordinator) reset(reason string) {
	wasIdle := c.mode == events.ModeIdle
	c.enterIdle()
	if wasIdle {
		c.regenerateThemes()
	}
	c.selectTheme(0)

	c.resets++
	c.emit(events.NewSessionReset(reason))
	logger.Info("session reset", "reason", reason, "resets", c.resets)
}

func (c *Coordinator) regenerateThemes() {
	c.themes = themes.Generate(c.rng, c.catalog)
	c.emit(events.NewThemesRegenerated(c.themes))
	if !inRange(c.themeIndex, len(c.themes)) {
		c.themeIndex = 0
	}
	c.emit(events.NewThemeChanged(c.themeIndex, c.themes[c.themeIndex]))
}

func (c *Coordinator) selectTheme(index int) {
	if index == c.themeIndex {
		return
	}
	c.themeIndex = index
	c.emit(events.NewThemeChanged(index, c.themes[index]))
}

func (c *Coordinator) currentTheme() themes.Theme {
	if !inRange(c.themeIndex, len(c.themes)) {
		return themes.Theme{}
	}
	return c.themes[c.themeIndex]
}

func (c *Coordinator) setText(state events.TextState, current, previous string) {
	if state == c.textState && current == c.currentText && previous == c.previousText {
		return
	}
	c.textState = state
	c.currentText = current
	c.previousText = previous
	c.emit(events.NewTextStateChanged(state, current, previous))
}
