package themes

import (
	"fmt"
	"math/rand/v2"
)

// Icon is one of the glyphs that mark chat speakers.
type Icon int

const (
	IconPlus Icon = iota
	IconMinus
	IconTimes
	IconPercent

	iconCount = 4
)

func (i Icon) String() string {
	switch i {
	case IconPlus:
		return "plus"
	case IconMinus:
		return "minus"
	case IconTimes:
		return "times"
	case IconPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// Glyph is the single-character rendering of the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconPlus:
		return "+"
	case IconMinus:
		return "-"
	case IconTimes:
		return "×"
	case IconPercent:
		return "%"
	default:
		return "?"
	}
}

// SessionStyle is the per-chat presentation chosen when a chat opens.
type SessionStyle struct {
	AssistantIcon Icon   `json:"assistantIcon"`
	UserIcon      Icon   `json:"userIcon"`
	UserHue       int    `json:"userHue"`
	UserColor     string `json:"userColor"`
}

// SelectSessionStyle derives a style from seed. The same seed always yields
// the same style and the two icons always differ.
func SelectSessionStyle(seed uint64) SessionStyle {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	assistant := Icon(rng.IntN(iconCount))
	user := Icon((int(assistant) + 1 + rng.IntN(iconCount-1)) % iconCount)
	hue := rng.IntN(360)

	return SessionStyle{
		AssistantIcon: assistant,
		UserIcon:      user,
		UserHue:       hue,
		UserColor:     fmt.Sprintf("hsla(%d, 85%%, 85%%, 0.7)", hue),
	}
}
