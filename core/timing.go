package orchestration

import "time"

// Timing holds every delay the coordinator schedules.
type Timing struct {
	AutoRotate      time.Duration `json:"autoRotate,omitempty" yaml:"autoRotate,omitempty"`
	EnterSettle     time.Duration `json:"enterSettle,omitempty" yaml:"enterSettle,omitempty"`
	Crossfade       time.Duration `json:"crossfade,omitempty" yaml:"crossfade,omitempty"`
	ChatClose       time.Duration `json:"chatClose,omitempty" yaml:"chatClose,omitempty"`
	InactivityCheck time.Duration `json:"inactivityCheck,omitempty" yaml:"inactivityCheck,omitempty"`
	ActiveTimeout   time.Duration `json:"activeTimeout,omitempty" yaml:"activeTimeout,omitempty"`
	ChatTimeout     time.Duration `json:"chatTimeout,omitempty" yaml:"chatTimeout,omitempty"`
	GuideDelay      time.Duration `json:"guideDelay,omitempty" yaml:"guideDelay,omitempty"`
	GuideDuration   time.Duration `json:"guideDuration,omitempty" yaml:"guideDuration,omitempty"`
	MessageDelay    time.Duration `json:"messageDelay,omitempty" yaml:"messageDelay,omitempty"`
	FinalPause      time.Duration `json:"finalPause,omitempty" yaml:"finalPause,omitempty"`
	BackendTimeout  time.Duration `json:"backendTimeout,omitempty" yaml:"backendTimeout,omitempty"`
	TurnLimit       int           `json:"turnLimit,omitempty" yaml:"turnLimit,omitempty"`
}

func DefaultTiming() Timing {
	return Timing{
		AutoRotate:      7 * time.Second,
		EnterSettle:     1150 * time.Millisecond,
		Crossfade:       900 * time.Millisecond,
		ChatClose:       500 * time.Millisecond,
		InactivityCheck: time.Second,
		ActiveTimeout:   45 * time.Second,
		ChatTimeout:     120 * time.Second,
		GuideDelay:      4 * time.Second,
		GuideDuration:   8 * time.Second,
		MessageDelay:    2 * time.Second,
		FinalPause:      7 * time.Second,
		BackendTimeout:  20 * time.Second,
		TurnLimit:       3,
	}
}

// merge overrides every positive field of override onto t.
func (t Timing) merge(override Timing) Timing {
	pick := func(current, candidate time.Duration) time.Duration {
		if candidate > 0 {
			return candidate
		}
		return current
	}

	t.AutoRotate = pick(t.AutoRotate, override.AutoRotate)
	t.EnterSettle = pick(t.EnterSettle, override.EnterSettle)
	t.Crossfade = pick(t.Crossfade, override.Crossfade)
	t.ChatClose = pick(t.ChatClose, override.ChatClose)
	t.InactivityCheck = pick(t.InactivityCheck, override.InactivityCheck)
	t.ActiveTimeout = pick(t.ActiveTimeout, override.ActiveTimeout)
	t.ChatTimeout = pick(t.ChatTimeout, override.ChatTimeout)
	t.GuideDelay = pick(t.GuideDelay, override.GuideDelay)
	t.GuideDuration = pick(t.GuideDuration, override.GuideDuration)
	t.MessageDelay = pick(t.MessageDelay, override.MessageDelay)
	t.FinalPause = pick(t.FinalPause, override.FinalPause)
	t.BackendTimeout = pick(t.BackendTimeout, override.BackendTimeout)
	if override.TurnLimit > 0 {
		t.TurnLimit = override.TurnLimit
	}
	return t
}
