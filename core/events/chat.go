package events

import "github.com/koscakluka/ema-kiosk/core/themes"

const (
	// KindChatOpened identifies a chat surface opening.
	KindChatOpened Kind = "chat.opened"
	// KindChatTyping identifies a pending paced assistant line.
	KindChatTyping Kind = "chat.typing"
	// KindChatMessageAppended identifies a display line being appended.
	KindChatMessageAppended Kind = "chat.message_appended"
	// KindChatClosing identifies the start of the close window.
	KindChatClosing Kind = "chat.closing"
	// KindChatClosed identifies the chat surface being discarded.
	KindChatClosed Kind = "chat.closed"
	// KindChatEnded identifies completion of the scripted ending.
	KindChatEnded Kind = "chat.ended"
)

// ChatOpened reports a new chat for the selected theme.
type ChatOpened struct {
	Base
	Question string
	Color    string
	Style    themes.SessionStyle
}

// NewChatOpened creates a chat opened event.
func NewChatOpened(question, color string, style themes.SessionStyle) ChatOpened {
	return ChatOpened{Base: NewBase(KindChatOpened), Question: question, Color: color, Style: style}
}

// ChatTyping toggles the assistant loading indicator.
type ChatTyping struct {
	Base
	Typing bool
}

// NewChatTyping creates a typing indicator event.
func NewChatTyping(typing bool) ChatTyping {
	return ChatTyping{Base: NewBase(KindChatTyping), Typing: typing}
}

// ChatMessageAppended carries one display line. Kind is the display
// category (greeting, question, reply, user, farewell, credits).
type ChatMessageAppended struct {
	Base
	Index       int
	MessageKind string
	Role        string
	Text        string
}

// NewChatMessageAppended creates a message appended event.
func NewChatMessageAppended(index int, kind, role, text string) ChatMessageAppended {
	return ChatMessageAppended{Base: NewBase(KindChatMessageAppended), Index: index, MessageKind: kind, Role: role, Text: text}
}

// ChatClosing marks the start of the close animation window.
type ChatClosing struct{ Base }

// NewChatClosing creates a chat closing event.
func NewChatClosing() ChatClosing {
	return ChatClosing{Base: NewBase(KindChatClosing)}
}

// ChatClosed marks the chat surface as discarded.
type ChatClosed struct{ Base }

// NewChatClosed creates a chat closed event.
func NewChatClosed() ChatClosed {
	return ChatClosed{Base: NewBase(KindChatClosed)}
}

// ChatEnded marks completion of the scripted ending sequence.
type ChatEnded struct {
	Base
	Turns int
}

// NewChatEnded creates a chat ended event.
func NewChatEnded(turns int) ChatEnded {
	return ChatEnded{Base: NewBase(KindChatEnded), Turns: turns}
}
