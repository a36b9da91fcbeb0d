package chat

import "time"

// Script holds the fixed lines the session speaks around the conversation.
type Script struct {
	Greeting string   `json:"greeting" yaml:"greeting"`
	Apology  string   `json:"apology" yaml:"apology"`
	WrapUp   []string `json:"wrapUp,omitempty" yaml:"wrapUp,omitempty"`
	Farewell []string `json:"farewell" yaml:"farewell"`
	Credits  string   `json:"credits" yaml:"credits"`
}

func DefaultScript() Script {
	return Script{
		Greeting: "안녕하세요!",
		Apology:  "죄송합니다. 잠시 후 다시 시도해주세요.",
		Farewell: []string{
			"소중한 기억을 나눠주셔서 감사합니다.",
			"이 순간도 좋은 기억으로 남길 바랍니다.",
			"안녕히 가세요!",
		},
		Credits: "Interactive Experience by 이승훈\n자율전공 / 시각디자인 / 23학번",
	}
}

// FeedbackWrapUp is the optional wrap-up that asks the viewer for a one-line
// review before the farewell.
func FeedbackWrapUp() []string {
	return []string{
		"좋아요~ 아쉽게도 이제 대화를 마무리할 시간이네요.",
		"다른 작품들도 재미있으니 즐겁게 관람하시길 바랍니다!",
		"관람 후기에 대한 한 줄 소감 부탁드려요~!",
	}
}

func (s Script) withFallback(defaults Script) Script {
	if s.Greeting == "" {
		s.Greeting = defaults.Greeting
	}
	if s.Apology == "" {
		s.Apology = defaults.Apology
	}
	if len(s.Farewell) == 0 {
		s.Farewell = defaults.Farewell
	}
	if s.Credits == "" {
		s.Credits = defaults.Credits
	}
	return s
}

// Pacing controls the conversation rhythm.
type Pacing struct {
	TurnLimit    int
	MessageDelay time.Duration
	FinalPause   time.Duration
}

const (
	DefaultTurnLimit    = 3
	DefaultMessageDelay = 2 * time.Second
	DefaultFinalPause   = 7 * time.Second
)

func DefaultPacing() Pacing {
	return Pacing{
		TurnLimit:    DefaultTurnLimit,
		MessageDelay: DefaultMessageDelay,
		FinalPause:   DefaultFinalPause,
	}
}
