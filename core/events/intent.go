package events

const (
	// KindAdvanceRequested identifies a request to move the selection.
	KindAdvanceRequested Kind = "intent.advance"
	// KindActivateRequested identifies a request to descend one level.
	KindActivateRequested Kind = "intent.activate"
	// KindBackRequested identifies a request to ascend one level.
	KindBackRequested Kind = "intent.back"
	// KindInteractionObserved identifies viewer input without navigation.
	KindInteractionObserved Kind = "intent.interaction"
	// KindResetRequested identifies an unconditional reset request.
	KindResetRequested Kind = "intent.reset"
	// KindChatSubmitted identifies viewer text submitted to the chat.
	KindChatSubmitted Kind = "intent.chat_submit"
)

// AdvanceRequested asks to move the theme selection by Direction (+1 or -1).
type AdvanceRequested struct {
	Base
	Direction int
}

// NewAdvanceRequested creates an advance request.
func NewAdvanceRequested(direction int) AdvanceRequested {
	return AdvanceRequested{Base: NewBase(KindAdvanceRequested), Direction: direction}
}

// ActivateRequested asks to descend one level.
type ActivateRequested struct{ Base }

// NewActivateRequested creates an activate request.
func NewActivateRequested() ActivateRequested {
	return ActivateRequested{Base: NewBase(KindActivateRequested)}
}

// BackRequested asks to ascend one level.
type BackRequested struct {
	Base
	Source BackSource
}

// NewBackRequested creates a back request.
func NewBackRequested(source BackSource) BackRequested {
	return BackRequested{Base: NewBase(KindBackRequested), Source: source}
}

// InteractionObserved records viewer activity.
type InteractionObserved struct{ Base }

// NewInteractionObserved creates an interaction event.
func NewInteractionObserved() InteractionObserved {
	return InteractionObserved{Base: NewBase(KindInteractionObserved)}
}

// ResetRequested asks for an unconditional return to idle.
type ResetRequested struct {
	Base
	Reason string
}

// NewResetRequested creates a reset request.
func NewResetRequested(reason string) ResetRequested {
	return ResetRequested{Base: NewBase(KindResetRequested), Reason: reason}
}

// ChatSubmitted carries viewer text for the open chat.
type ChatSubmitted struct {
	Base
	Text string
}

// NewChatSubmitted creates a chat submission.
func NewChatSubmitted(text string) ChatSubmitted {
	return ChatSubmitted{Base: NewBase(KindChatSubmitted), Text: text}
}
