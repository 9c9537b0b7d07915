package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/fitgenius/internal/flow"
)

const failureMessage = "The coach could not complete this request."

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type answerMsg struct {
	query    string
	response string
	err      error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx      context.Context
	session  *Session
	input    textarea.Model
	view     viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer
	thinking bool
	log      string
}

// NewModel creates the chat screen for session.
func NewModel(ctx context.Context, session *Session) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask your coach. Enter sends."
	ta.Prompt = "› "
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, _ := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(76))

	m := Model{
		ctx:      ctx,
		session:  session,
		input:    ta,
		view:     viewport.New(80, 18),
		spin:     sp,
		renderer: renderer,
	}
	m.log = titleStyle.Render("FitGenius coach") + "\n\n"
	m.view.SetContent(m.log)
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.Width = max(20, msg.Width-4)
		m.view.Height = max(5, msg.Height-m.input.Height()-6)
		m.input.SetWidth(max(20, msg.Width-4))
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp:
			m.view.ScrollUp(10)
			return m, nil
		case tea.KeyPgDown:
			m.view.ScrollDown(10)
			return m, nil
		case tea.KeyEnter:
			if m.thinking {
				return m, nil
			}
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()
			m.thinking = true
			m.appendLine(userStyle.Render("You: ") + query)
			return m, tea.Batch(m.ask(query), m.spin.Tick)
		}

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendLine(errStyle.Render(failureMessage + " (" + failureReason(msg.err) + ")"))
			return m, nil
		}
		m.appendLine(m.renderMarkdown(msg.response))
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	status := helpStyle.Render("Enter send • PgUp/PgDn scroll • Esc quit")
	if m.thinking {
		status = m.spin.View() + " thinking…"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.view.View()),
		boxStyle.Render(m.input.View()),
		status,
	)
}

// Transcript returns the rendered conversation log.
func (m Model) Transcript() string {
	return m.log
}

// ask runs in a tea.Cmd goroutine; the session is only touched there while
// thinking is set, so turns never interleave.
func (m Model) ask(query string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := session.Ask(ctx, query)
		return answerMsg{query: query, response: resp, err: err}
	}
}

func (m *Model) appendLine(s string) {
	m.log += s + "\n"
	m.view.SetContent(m.log)
	m.view.GotoBottom()
}

func (m Model) renderMarkdown(s string) string {
	if m.renderer == nil {
		return s
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}

func failureReason(err error) string {
	fe, ok := flow.AsError(err)
	if !ok {
		return err.Error()
	}
	if fe.Kind == flow.InvocationFailed {
		return string(fe.Invocation)
	}
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Reason)
	}
	return fe.Reason
}

// Run starts the full-screen chat program.
func Run(ctx context.Context, session *Session) error {
	p := tea.NewProgram(NewModel(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
