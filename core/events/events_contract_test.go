package events

import (
	"testing"

	"github.com/koscakluka/ema-kiosk/core/themes"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "advance requested", event: NewAdvanceRequested(1), expected: KindAdvanceRequested},
		{name: "activate requested", event: NewActivateRequested(), expected: KindActivateRequested},
		{name: "back requested", event: NewBackRequested(BackFromKey), expected: KindBackRequested},
		{name: "interaction observed", event: NewInteractionObserved(), expected: KindInteractionObserved},
		{name: "reset requested", event: NewResetRequested("operator"), expected: KindResetRequested},
		{name: "chat submitted", event: NewChatSubmitted("hi"), expected: KindChatSubmitted},
		{name: "viewer presence changed", event: NewViewerPresenceChanged(true), expected: KindViewerPresenceChanged},
		{name: "presence channel changed", event: NewPresenceChannelChanged(false), expected: KindPresenceChannelChanged},
		{name: "viewer swiped", event: NewViewerSwiped(-1), expected: KindViewerSwiped},
		{name: "mode changed", event: NewModeChanged(ModeActive, ModeIdle), expected: KindModeChanged},
		{name: "theme changed", event: NewThemeChanged(2, themes.Theme{ID: 2}), expected: KindThemeChanged},
		{name: "themes regenerated", event: NewThemesRegenerated(nil), expected: KindThemesRegenerated},
		{name: "text state changed", event: NewTextStateChanged(TextEntering, "q", ""), expected: KindTextStateChanged},
		{name: "history changed", event: NewHistoryChanged(1, []Mode{ModeActive}, 0), expected: KindHistoryChanged},
		{name: "session reset", event: NewSessionReset("inactivity"), expected: KindSessionReset},
		{name: "guide shown", event: NewGuideShown(), expected: KindGuideShown},
		{name: "guide hidden", event: NewGuideHidden(), expected: KindGuideHidden},
		{name: "chat opened", event: NewChatOpened("q", "#fff", themes.SessionStyle{}), expected: KindChatOpened},
		{name: "chat typing", event: NewChatTyping(true), expected: KindChatTyping},
		{name: "chat message appended", event: NewChatMessageAppended(0, "greeting", "assistant", "hi"), expected: KindChatMessageAppended},
		{name: "chat closing", event: NewChatClosing(), expected: KindChatClosing},
		{name: "chat closed", event: NewChatClosed(), expected: KindChatClosed},
		{name: "chat ended", event: NewChatEnded(3), expected: KindChatEnded},
		{name: "timer armed", event: NewTimerArmed("autoRotate", 0, true), expected: KindTimerArmed},
		{name: "timer stopped", event: NewTimerStopped("autoRotate"), expected: KindTimerStopped},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestModeDepthMatchesNavigationLevels(t *testing.T) {
	if ModeIdle.Depth() != 0 || ModeActive.Depth() != 1 || ModeChat.Depth() != 2 {
		t.Fatalf("expected depths 0/1/2, got %d/%d/%d", ModeIdle.Depth(), ModeActive.Depth(), ModeChat.Depth())
	}
}

func TestGuideShownAndHiddenKindsAreDistinct(t *testing.T) {
	shown := NewGuideShown()
	hidden := NewGuideHidden()

	if shown.Kind() == hidden.Kind() {
		t.Fatalf("expected guide shown and hidden kinds to differ, both were %q", shown.Kind())
	}
}
