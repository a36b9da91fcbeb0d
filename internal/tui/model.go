// Package tui renders the kiosk in a terminal. It shows what the
// coordinator reports and forwards keys, wheel and clicks through the input
// aggregator.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/koscakluka/ema-kiosk/core"
	"github.com/koscakluka/ema-kiosk/core/chat"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/input"
	"github.com/koscakluka/ema-kiosk/core/llms"
	"github.com/muesli/reflow/wordwrap"
)

// Coordinator is the part of the session coordinator the renderer uses.
type Coordinator interface {
	Snapshot() orchestration.State
	Submit(text string)
	Interact()
}

// Input receives raw gestures. *input.Aggregator satisfies it.
type Input interface {
	Key(key string)
	Wheel(deltaX, deltaY float64)
	Click(target input.Target)
	HistoryPop()
}

// EventMsg carries one coordinator event into the program.
type EventMsg struct{ Event events.Event }

// TickMsg refreshes the snapshot between events.
type TickMsg time.Time

const (
	refreshInterval = 250 * time.Millisecond
	wheelStep       = 120
	guideText       = "Enter 또는 Space를 눌러 시작하세요"
)

type Model struct {
	coordinator Coordinator
	input       Input
	events      <-chan events.Event

	state   orchestration.State
	chat    viewport.Model
	compose textinput.Model
	typing  bool

	styles   styles
	width    int
	height   int
	quitting bool
}

func New(coordinator Coordinator, in Input, updates <-chan events.Event) Model {
	compose := textinput.New()
	compose.Placeholder = "메시지를 입력하세요..."
	compose.CharLimit = 280

	return Model{
		coordinator: coordinator,
		input:       in,
		events:      updates,
		state:       coordinator.Snapshot(),
		chat:        viewport.New(60, 12),
		compose:     compose,
		styles:      newStyles(),
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.tick())
}

func (m Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case EventMsg:
		switch event := msg.Event.(type) {
		case events.ChatTyping:
			m.typing = event.Typing
		case events.ChatOpened:
			m.typing = false
			m.compose.Reset()
			m.compose.Focus()
		}
		m.refresh()
		cmds = append(cmds, m.listen())

	case TickMsg:
		m.refresh()
		cmds = append(cmds, m.tick())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.state.Mode != events.ModeChat {
		switch msg.String() {
		case "backspace":
			m.input.HistoryPop()
		default:
			m.input.Key(msg.String())
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.input.Key("esc")
		return nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.compose.Value())
		if text == "" || m.state.ChatBusy {
			return nil
		}
		m.coordinator.Submit(text)
		m.compose.Reset()
		return nil
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return cmd
	}

	m.coordinator.Interact()
	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.input.Wheel(0, -wheelStep)
	case tea.MouseButtonWheelDown:
		m.input.Wheel(0, wheelStep)
	case tea.MouseButtonWheelLeft:
		m.input.Wheel(-wheelStep, 0)
	case tea.MouseButtonWheelRight:
		m.input.Wheel(wheelStep, 0)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease || m.state.Mode == events.ModeChat {
			return
		}
		m.input.Click(m.clickTarget(msg.X, msg.Y))
	}
}

// clickTarget maps a terminal cell to the carousel row: each theme owns an
// equal slice of the width on the second line.
func (m *Model) clickTarget(x, y int) input.Target {
	count := len(m.state.Themes)
	if y != 1 || count == 0 || m.width <= 0 {
		return input.Target{Kind: input.TargetBackground}
	}

	index := min(x*count/m.width, count-1)
	return input.Target{Kind: input.TargetTheme, Index: index, Current: m.state.ThemeIndex}
}

func (m *Model) refresh() {
	m.state = m.coordinator.Snapshot()
	m.chat.SetContent(m.renderMessages())
	m.chat.GotoBottom()
}

func (m *Model) resize() {
	width := max(m.width-4, 20)
	height := max(m.height-10, 5)
	m.chat.Width = width
	m.chat.Height = height
	m.compose.Width = width - 4
	m.chat.SetContent(m.renderMessages())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCarousel())
	b.WriteString("\n\n")

	switch {
	case m.state.Mode == events.ModeChat:
		b.WriteString(m.styles.frame.Render(m.chat.View()))
		b.WriteString("\n")
		if m.typing {
			b.WriteString(m.styles.typing.Render("..."))
		}
		b.WriteString("\n")
		b.WriteString(m.compose.View())
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render("enter 보내기 · esc 닫기"))
	case m.state.Mode == events.ModeActive:
		b.WriteString(m.renderQuestion())
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render("←/→ 주제 · enter 대화 · esc 뒤로"))
	default:
		if m.state.GuideVisible {
			b.WriteString(m.styles.guide.Render(guideText))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.help.Render("enter 시작 · ←/→ 주제 · q 종료"))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	status := m.state.Mode.String()
	if m.state.ChatClosing {
		status += " (closing)"
	}
	if m.state.PresenceHealthy {
		if m.state.ViewerPresent {
			status += " · viewer"
		} else {
			status += " · empty"
		}
	}
	return m.styles.title.Render("Memory") + " " + m.styles.mode.Render(status)
}

func (m Model) renderCarousel() string {
	cells := make([]string, 0, len(m.state.Themes))
	cellWidth := max(m.width/max(len(m.state.Themes), 1)-2, 3)

	for i, theme := range m.state.Themes {
		label := fmt.Sprintf("%d", i+1)
		if m.state.Mode == events.ModeIdle {
			label = truncate(theme.Question, cellWidth)
		}

		style := m.styles.themeColor(m.styles.theme, theme.Color)
		if i == m.state.ThemeIndex {
			style = m.styles.themeColor(m.styles.selected, theme.Color)
		}
		cells = append(cells, style.Width(cellWidth).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderQuestion() string {
	width := max(m.width-4, 20)
	current := wordwrap.String(m.state.CurrentText, width)

	var color string
	if m.state.ThemeIndex >= 0 && m.state.ThemeIndex < len(m.state.Themes) {
		color = m.state.Themes[m.state.ThemeIndex].Color
	}
	question := m.styles.themeColor(m.styles.question, color)

	switch m.state.TextState {
	case events.TextEntering:
		return m.styles.fading.Render(current)
	case events.TextTransitioning:
		previous := wordwrap.String(m.state.PreviousText, width)
		return m.styles.fading.Render(previous) + "\n" + question.Render(current)
	default:
		return question.Render(current)
	}
}

func (m Model) renderMessages() string {
	width := max(m.chat.Width-4, 10)

	lines := make([]string, 0, len(m.state.ChatMessages))
	for _, message := range m.state.ChatMessages {
		text := wordwrap.String(message.Text, width)
		switch {
		case message.Kind == chat.KindCredits:
			lines = append(lines, m.styles.credits.Render(text))
		case message.Role == llms.RoleUser:
			lines = append(lines, m.styles.viewer.Render(m.state.Style.UserIcon.Glyph()+" "+text))
		default:
			lines = append(lines, m.styles.assistant.Render(m.state.Style.AssistantIcon.Glyph()+" "+text))
		}
	}
	return strings.Join(lines, "\n\n")
}

func truncate(text string, width int) string {
	runes := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(runes) <= width {
		return string(runes)
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
