// Package chat runs a single kiosk conversation: the greeting, the opening
// question, a bounded number of viewer turns and the scripted ending.
//
// A Session is owned by one goroutine (the coordinator's loop) and is not
// safe for concurrent use. Backend calls run through a Runner, which is
// expected to deliver results back on that same goroutine.
package chat

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/llms"
	"github.com/koscakluka/ema-kiosk/core/timers"
)

// Backend produces assistant text.
type Backend interface {
	InitialQuestion(ctx context.Context, theme string) (string, error)
	Reply(ctx context.Context, userText, theme string, history []llms.Message) (string, error)
}

// Scheduler arms paced steps. *timers.Bank satisfies it.
type Scheduler interface {
	After(name timers.Name, delay time.Duration, fn func())
	Stop(name timers.Name) bool
}

// Runner executes work and hands its result to done.
type Runner func(work func(context.Context) (string, error), done func(string, error))

// MessageKind is the display category of a chat line.
type MessageKind string

const (
	KindGreeting MessageKind = "greeting"
	KindQuestion MessageKind = "question"
	KindReply    MessageKind = "reply"
	KindUser     MessageKind = "user"
	KindWrapUp   MessageKind = "wrap_up"
	KindFarewell MessageKind = "farewell"
	KindCredits  MessageKind = "credits"
)

// Message is one displayed chat line.
type Message struct {
	Kind MessageKind
	Role llms.Role
	Text string
}

// Transcript is the conversation handed off when a chat finishes.
type Transcript struct {
	Question  string
	Color     string
	Messages  []llms.Message
	Turns     int
	StartedAt time.Time
	EndedAt   time.Time
	Reason    string
}

type Option func(*Session)

func WithBackend(backend Backend) Option {
	return func(s *Session) { s.backend = backend }
}

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) { s.scheduler = scheduler }
}

func WithRunner(run Runner) Option {
	return func(s *Session) {
		if run != nil {
			s.run = run
		}
	}
}

func WithEmitter(emit func(events.Event)) Option {
	return func(s *Session) {
		if emit != nil {
			s.emit = emit
		}
	}
}

// WithOnEnded registers the callback invoked once the ending sequence has
// fully played.
func WithOnEnded(onEnded func(Transcript)) Option {
	return func(s *Session) {
		if onEnded != nil {
			s.onEnded = onEnded
		}
	}
}

func WithScript(script Script) Option {
	return func(s *Session) { s.script = script.withFallback(DefaultScript()) }
}

func WithPacing(pacing Pacing) Option {
	return func(s *Session) {
		if pacing.TurnLimit > 0 {
			s.pacing.TurnLimit = pacing.TurnLimit
		}
		if pacing.MessageDelay >= 0 {
			s.pacing.MessageDelay = pacing.MessageDelay
		}
		if pacing.FinalPause >= 0 {
			s.pacing.FinalPause = pacing.FinalPause
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

type Session struct {
	backend   Backend
	scheduler Scheduler
	run       Runner
	emit      func(events.Event)
	onEnded   func(Transcript)
	now       func() time.Time

	script Script
	pacing Pacing

	generation     uint64
	open           bool
	question       string
	color          string
	messages       []Message
	history        []llms.Message
	turns          int
	busy           bool
	closing        bool
	awaitingReview bool
	startedAt      time.Time
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		run: func(work func(context.Context) (string, error), done func(string, error)) {
			done(work(context.Background()))
		},
		emit:    func(events.Event) {},
		onEnded: func(Transcript) {},
		now:     time.Now,
		script:  DefaultScript(),
		pacing:  DefaultPacing(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a new conversation about question, discarding any previous
// one. The greeting is shown at once; the opening question follows after
// one pacing delay.
func (s *Session) Open(question, color string) {
	s.generation++
	generation := s.generation

	s.open = true
	s.question = question
	s.color = color
	s.messages = nil
	s.history = nil
	s.turns = 0
	s.busy = true
	s.closing = false
	s.awaitingReview = false
	s.startedAt = s.now()

	s.appendMessage(KindGreeting, llms.RoleAssistant, s.script.Greeting)
	s.emit(events.NewChatTyping(true))

	if s.backend == nil {
		s.deliverOpening(generation, question, nil)
		return
	}

	s.run(
		func(ctx context.Context) (string, error) { return s.backend.InitialQuestion(ctx, question) },
		func(text string, err error) { s.deliverOpening(generation, text, err) },
	)
}

func (s *Session) deliverOpening(generation uint64, text string, err error) {
	if generation != s.generation {
		return
	}
	if err != nil || strings.TrimSpace(text) == "" {
		text = s.question
	}

	s.pace(generation, s.pacing.MessageDelay, func() {
		s.emit(events.NewChatTyping(false))
		s.appendMessage(KindQuestion, llms.RoleAssistant, text)
		s.history = append(s.history, llms.Message{Role: llms.RoleAssistant, Content: text})
		s.busy = false
	})
}

// Submit adds viewer text to the conversation. It reports false when the
// text was dropped: blank input, a pending response, or an ending in
// progress.
func (s *Session) Submit(text string) bool {
	text = strings.TrimSpace(text)
	if !s.open || text == "" || s.busy || s.closing {
		return false
	}

	generation := s.generation
	s.appendMessage(KindUser, llms.RoleUser, text)
	prior := slices.Clone(s.history)
	s.history = append(s.history, llms.Message{Role: llms.RoleUser, Content: text})

	if s.awaitingReview {
		s.startEnding(generation)
		return true
	}

	s.turns++
	if s.turns >= s.pacing.TurnLimit {
		if len(s.script.WrapUp) > 0 {
			s.busy = true
			s.playLines(generation, KindWrapUp, s.script.WrapUp, func() {
				s.awaitingReview = true
				s.busy = false
			})
			return true
		}
		s.startEnding(generation)
		return true
	}

	s.busy = true
	s.emit(events.NewChatTyping(true))

	if s.backend == nil {
		s.deliverReply(generation, "", ErrNoBackend)
		return true
	}

	question := s.question
	s.run(
		func(ctx context.Context) (string, error) { return s.backend.Reply(ctx, text, question, prior) },
		func(reply string, err error) { s.deliverReply(generation, reply, err) },
	)
	return true
}

func (s *Session) deliverReply(generation uint64, reply string, err error) {
	if generation != s.generation {
		return
	}

	failed := err != nil || strings.TrimSpace(reply) == ""
	if failed {
		reply = s.script.Apology
	}

	s.pace(generation, s.pacing.MessageDelay, func() {
		s.emit(events.NewChatTyping(false))
		s.appendMessage(KindReply, llms.RoleAssistant, reply)
		if !failed {
			s.history = append(s.history, llms.Message{Role: llms.RoleAssistant, Content: reply})
		}
		s.busy = false
	})
}

func (s *Session) startEnding(generation uint64) {
	s.closing = true
	s.busy = true

	s.playLines(generation, KindFarewell, s.script.Farewell, func() {
		s.appendMessage(KindCredits, llms.RoleAssistant, s.script.Credits)
		s.pace(generation, s.pacing.FinalPause, func() {
			transcript := s.transcript("ended")
			s.open = false
			s.emit(events.NewChatEnded(s.turns))
			s.onEnded(transcript)
		})
	})
}

// playLines shows lines one at a time behind the typing indicator. The last
// of several lines gets half the delay.
func (s *Session) playLines(generation uint64, kind MessageKind, lines []string, done func()) {
	if len(lines) == 0 {
		done()
		return
	}

	delay := s.pacing.MessageDelay
	if len(lines) == 1 && kind == KindFarewell && len(s.script.Farewell) > 1 {
		delay /= 2
	}

	s.emit(events.NewChatTyping(true))
	s.pace(generation, delay, func() {
		s.emit(events.NewChatTyping(false))
		s.appendMessage(kind, llms.RoleAssistant, lines[0])
		s.playLines(generation, kind, lines[1:], done)
	})
}

func (s *Session) pace(generation uint64, delay time.Duration, step func()) {
	guarded := func() {
		if generation != s.generation {
			return
		}
		step()
	}

	if delay <= 0 || s.scheduler == nil {
		guarded()
		return
	}
	s.scheduler.After(timers.ChatPacing, delay, guarded)
}

func (s *Session) appendMessage(kind MessageKind, role llms.Role, text string) {
	s.messages = append(s.messages, Message{Kind: kind, Role: role, Text: text})
	s.emit(events.NewChatMessageAppended(len(s.messages)-1, string(kind), string(role), text))
}

// Close abandons the conversation. Pending responses and paced lines are
// ignored from now on. It returns the transcript so far and whether the
// viewer said anything.
func (s *Session) Close() (Transcript, bool) {
	if !s.open {
		return Transcript{}, false
	}

	transcript := s.transcript("closed")
	s.generation++
	s.open = false
	s.busy = false
	if s.scheduler != nil {
		s.scheduler.Stop(timers.ChatPacing)
	}

	return transcript, transcript.Turns > 0
}

func (s *Session) transcript(reason string) Transcript {
	return Transcript{
		Question:  s.question,
		Color:     s.color,
		Messages:  slices.Clone(s.history),
		Turns:     s.turns,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Reason:    reason,
	}
}

func (s *Session) IsOpen() bool { return s.open }

func (s *Session) IsBusy() bool { return s.busy }

func (s *Session) IsClosing() bool { return s.closing }

func (s *Session) Turns() int { return s.turns }

func (s *Session) Messages() []Message { return slices.Clone(s.messages) }

func (s *Session) History() []llms.Message { return slices.Clone(s.history) }
