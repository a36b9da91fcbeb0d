package orchestration

import (
	"context"

	"github.com/koscakluka/ema-kiosk/core/events"
)

// respondToEvent applies one inbound event. Must be called on the loop with
// mu held.
func (c *Coordinator) respondToEvent(ctx context.Context, event events.Event) {
	switch typedEvent := event.(type) {
	case events.AdvanceRequested:
		c.markInteraction()
		c.advance(typedEvent.Direction)
	case events.ActivateRequested:
		c.markInteraction()
		c.activate()
	case events.BackRequested:
		c.markInteraction()
		c.back(typedEvent.Source)
	case events.InteractionObserved:
		c.markInteraction()
	case events.ResetRequested:
		c.reset(typedEvent.Reason)
	case events.ChatSubmitted:
		if c.mode != events.ModeChat {
			logger.DebugContext(ctx, "chat submission outside chat ignored")
			return
		}
		c.markInteraction()
		if !c.chat.Submit(typedEvent.Text) {
			logger.DebugContext(ctx, "chat submission dropped", "busy", c.chat.IsBusy())
		}
	case events.ViewerPresenceChanged:
		c.viewerPresent = typedEvent.Present
		c.lastInteraction = c.clock.Now()
	case events.PresenceChannelChanged:
		c.presenceHealthy = typedEvent.Healthy
		if !typedEvent.Healthy {
			c.viewerPresent = false
		}
	case events.ViewerSwiped:
		c.markInteraction()
		c.advance(typedEvent.Direction)
	default:
		logger.DebugContext(ctx, "unhandled session event", "kind", event.Kind())
	}
}
