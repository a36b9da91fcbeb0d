package input

import (
	"testing"
	"time"

	"github.com/koscakluka/ema-kiosk/core/events"
)

type recordingSink struct {
	intents []string
}

func (s *recordingSink) Advance(direction int) {
	if direction > 0 {
		s.intents = append(s.intents, "advance+")
		return
	}
	s.intents = append(s.intents, "advance-")
}

func (s *recordingSink) Activate() { s.intents = append(s.intents, "activate") }

func (s *recordingSink) Back(source events.BackSource) {
	s.intents = append(s.intents, "back:"+source.String())
}

func (s *recordingSink) Interact() { s.intents = append(s.intents, "interact") }

func TestKeyMapping(t *testing.T) {
	testCases := []struct {
		key      string
		expected string
	}{
		{key: " ", expected: "activate"},
		{key: "enter", expected: "activate"},
		{key: "Enter", expected: "activate"},
		{key: "ArrowLeft", expected: "advance-"},
		{key: "a", expected: "advance-"},
		{key: "right", expected: "advance+"},
		{key: "D", expected: "advance+"},
		{key: "Escape", expected: "back:key"},
		{key: "esc", expected: "back:key"},
		{key: "x", expected: "interact"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.key, func(t *testing.T) {
			sink := &recordingSink{}
			NewAggregator(sink).Key(testCase.key)

			if len(sink.intents) != 1 || sink.intents[0] != testCase.expected {
				t.Fatalf("expected %q, got %v", testCase.expected, sink.intents)
			}
		})
	}
}

func TestWheelBurstCollapsesIntoOneAdvance(t *testing.T) {
	sink := &recordingSink{}
	now := time.Unix(0, 0)
	aggregator := NewAggregator(sink, WithNow(func() time.Time { return now }))

	aggregator.Wheel(0, 120)
	now = now.Add(100 * time.Millisecond)
	aggregator.Wheel(0, 120)
	now = now.Add(100 * time.Millisecond)
	aggregator.Wheel(0, 120)

	advances := 0
	for _, intent := range sink.intents {
		if intent == "advance+" {
			advances++
		}
	}
	if advances != 1 {
		t.Fatalf("expected 1 advance from a burst, got %v", sink.intents)
	}

	now = now.Add(DefaultWheelCooldown)
	aggregator.Wheel(0, -120)
	if last := sink.intents[len(sink.intents)-1]; last != "advance-" {
		t.Fatalf("expected backward advance after cooldown, got %q", last)
	}
}

func TestWheelBelowThresholdOnlyInteracts(t *testing.T) {
	sink := &recordingSink{}
	NewAggregator(sink).Wheel(0, 10)

	if len(sink.intents) != 1 || sink.intents[0] != "interact" {
		t.Fatalf("expected interaction only, got %v", sink.intents)
	}
}

func TestTouchSwipe(t *testing.T) {
	sink := &recordingSink{}
	aggregator := NewAggregator(sink)

	aggregator.TouchStart(300, 100)
	aggregator.TouchEnd(100, 110)
	aggregator.TouchStart(100, 100)
	aggregator.TouchEnd(300, 90)
	aggregator.TouchStart(100, 100)
	aggregator.TouchEnd(120, 100)

	expected := []string{"advance+", "advance-", "interact"}
	if len(sink.intents) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, sink.intents)
	}
	for i := range expected {
		if sink.intents[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, sink.intents)
		}
	}
}

func TestClickTargets(t *testing.T) {
	sink := &recordingSink{}
	aggregator := NewAggregator(sink)

	aggregator.Click(Target{Kind: TargetBackground})
	aggregator.Click(Target{Kind: TargetNext})
	aggregator.Click(Target{Kind: TargetPrevious})
	aggregator.Click(Target{Kind: TargetTheme, Index: 2, Current: 2})
	aggregator.Click(Target{Kind: TargetTheme, Index: 4, Current: 2})
	aggregator.Click(Target{Kind: TargetTheme, Index: 0, Current: 2})
	aggregator.HistoryPop()

	expected := []string{"activate", "advance+", "advance-", "activate", "advance+", "advance-", "back:history"}
	for i := range expected {
		if i >= len(sink.intents) || sink.intents[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, sink.intents)
		}
	}
}
