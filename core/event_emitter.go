package orchestration

import events "github.com/koscakluka/ema-kiosk/core/events"

type eventEmitter func(events.Event)

func newCallbackEventEmitter(opts StartOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.ModeChanged:
			if opts.onModeChanged != nil {
				opts.onModeChanged(typedEvent.Mode, typedEvent.Previous)
			}
		case events.ThemeChanged:
			if opts.onThemeChanged != nil {
				opts.onThemeChanged(typedEvent.Index, typedEvent.Theme)
			}
		case events.TextStateChanged:
			if opts.onTextChanged != nil {
				opts.onTextChanged(typedEvent.State, typedEvent.Current, typedEvent.Previous)
			}
		case events.GuideShown:
			if opts.onGuide != nil {
				opts.onGuide(true)
			}
		case events.GuideHidden:
			if opts.onGuide != nil {
				opts.onGuide(false)
			}
		case events.ChatMessageAppended:
			if opts.onChatMessage != nil {
				opts.onChatMessage(typedEvent.MessageKind, typedEvent.Role, typedEvent.Text)
			}
		case events.ChatTyping:
			if opts.onChatTyping != nil {
				opts.onChatTyping(typedEvent.Typing)
			}
		case events.SessionReset:
			if opts.onSessionReset != nil {
				opts.onSessionReset(typedEvent.Reason)
			}
		case events.HistoryChanged:
			if opts.onHistoryChange != nil {
				opts.onHistoryChange(typedEvent.Depth)
			}
		}
	}
}

// emit queues an outbound event. Must be called on the loop with mu held.
func (c *Coordinator) emit(event events.Event) {
	c.outbox = append(c.outbox, event)
}

func (c *Coordinator) publish(pending []events.Event) {
	for _, event := range pending {
		for _, handler := range c.handlers {
			handler(event)
		}
	}
}
