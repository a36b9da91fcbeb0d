package events

import "github.com/koscakluka/ema-kiosk/core/themes"

const (
	// KindModeChanged identifies a mode transition.
	KindModeChanged Kind = "session.mode_changed"
	// KindThemeChanged identifies a selection index change.
	KindThemeChanged Kind = "session.theme_changed"
	// KindThemesRegenerated identifies a freshly drawn theme set.
	KindThemesRegenerated Kind = "session.themes_regenerated"
	// KindTextStateChanged identifies a question text phase change.
	KindTextStateChanged Kind = "session.text_state_changed"
	// KindHistoryChanged identifies a navigation stack edit.
	KindHistoryChanged Kind = "session.history_changed"
	// KindSessionReset identifies a completed reset to idle.
	KindSessionReset Kind = "session.reset"
	// KindGuideShown identifies the idle guide prompt appearing.
	KindGuideShown Kind = "guide.shown"
	// KindGuideHidden identifies the idle guide prompt disappearing.
	KindGuideHidden Kind = "guide.hidden"
)

// ModeChanged reports a transition between modes.
type ModeChanged struct {
	Base
	Mode     Mode
	Previous Mode
}

// NewModeChanged creates a mode change event.
func NewModeChanged(mode, previous Mode) ModeChanged {
	return ModeChanged{Base: NewBase(KindModeChanged), Mode: mode, Previous: previous}
}

// ThemeChanged reports the newly selected theme.
type ThemeChanged struct {
	Base
	Index int
	Theme themes.Theme
}

// NewThemeChanged creates a theme change event.
func NewThemeChanged(index int, theme themes.Theme) ThemeChanged {
	return ThemeChanged{Base: NewBase(KindThemeChanged), Index: index, Theme: theme}
}

// ThemesRegenerated carries the new theme set.
type ThemesRegenerated struct {
	Base
	Themes []themes.Theme
}

// NewThemesRegenerated creates a themes regenerated event.
func NewThemesRegenerated(set []themes.Theme) ThemesRegenerated {
	return ThemesRegenerated{Base: NewBase(KindThemesRegenerated), Themes: set}
}

// TextStateChanged carries the question text phase and both texts needed
// for a crossfade.
type TextStateChanged struct {
	Base
	State    TextState
	Current  string
	Previous string
}

// NewTextStateChanged creates a text state change event.
func NewTextStateChanged(state TextState, current, previous string) TextStateChanged {
	return TextStateChanged{Base: NewBase(KindTextStateChanged), State: state, Current: current, Previous: previous}
}

// HistoryChanged describes how the navigation stack was edited. A renderer
// bound to browser-like history mirrors Pushed and Popped.
type HistoryChanged struct {
	Base
	Depth  int
	Pushed []Mode
	Popped int
}

// NewHistoryChanged creates a history change event.
func NewHistoryChanged(depth int, pushed []Mode, popped int) HistoryChanged {
	return HistoryChanged{Base: NewBase(KindHistoryChanged), Depth: depth, Pushed: pushed, Popped: popped}
}

// SessionReset reports that the session returned to idle through a reset.
type SessionReset struct {
	Base
	Reason string
}

// NewSessionReset creates a session reset event.
func NewSessionReset(reason string) SessionReset {
	return SessionReset{Base: NewBase(KindSessionReset), Reason: reason}
}

// GuideShown marks the idle guide prompt becoming visible.
type GuideShown struct{ Base }

// NewGuideShown creates a guide shown event.
func NewGuideShown() GuideShown {
	return GuideShown{Base: NewBase(KindGuideShown)}
}

// GuideHidden marks the idle guide prompt being dismissed.
type GuideHidden struct{ Base }

// NewGuideHidden creates a guide hidden event.
func NewGuideHidden() GuideHidden {
	return GuideHidden{Base: NewBase(KindGuideHidden)}
}
