package events

// Mode is the coarse kiosk state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeActive
	ModeChat
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeActive:
		return "active"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Depth is the navigation depth of the mode: idle is the outermost level.
func (m Mode) Depth() int {
	switch m {
	case ModeActive:
		return 1
	case ModeChat:
		return 2
	default:
		return 0
	}
}

// TextState tracks the question text animation phase while active.
type TextState int

const (
	TextNone TextState = iota
	TextEntering
	TextActive
	TextTransitioning
)

func (s TextState) String() string {
	switch s {
	case TextEntering:
		return "entering"
	case TextActive:
		return "active"
	case TextTransitioning:
		return "transitioning"
	default:
		return "none"
	}
}

// BackSource tells whether a back request came from a cancel key or from
// a history pop. Only key-sourced backs may reset from idle.
type BackSource int

const (
	BackFromKey BackSource = iota
	BackFromHistory
)

func (s BackSource) String() string {
	if s == BackFromHistory {
		return "history"
	}
	return "key"
}
