package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rerank/internal/domain"
)

// RankPort is the TUI-facing subset of the rank service.
type RankPort interface {
	RankScored(ctx context.Context, query string, passages []string) ([]domain.ScoredPassage, error)
}

// rankedMsg carries the outcome of an asynchronous ranking call.
type rankedMsg struct {
	query   string
	results []domain.ScoredPassage
	err     error
}

// Model is the Bubble Tea model for the interactive reranker.
type Model struct {
	service   RankPort
	passages  []string
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.ScoredPassage
	status    string
	cursor    int
	ready     bool
	busy      bool
	lastQuery string
}

// New creates a new TUI model over a fixed set of passages.
func New(service RankPort, passages []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		passages: passages,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Loaded %d passages. Type a query.", len(passages)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) rank(q string) tea.Cmd {
	svc, passages := m.service, m.passages
	return func() tea.Msg {
		res, err := svc.RankScored(context.Background(), q, passages)
		return rankedMsg{query: q, results: res, err: err}
	}
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case rankedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.results = nil
		} else {
			m.status = fmt.Sprintf("Ends-first order for %q (↑/↓ to move)", msg.query)
			m.results = msg.results
			m.cursor = 0
			m.lastQuery = msg.query
		}
		m.viewport.SetContent(m.renderResults())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.status = "Scoring..."
				return m, m.rank(q)
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current results.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Rerank")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	qTokens := toTokenSet(m.lastQuery)
	var b strings.Builder
	for i, r := range m.results {
		title := fmt.Sprintf("%2d. rank=%d score=%.4f input=#%d", i+1, r.Rank, r.Score, r.Index+1)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▶ " + title))
			b.WriteString("\n   ")
			b.WriteString(highlightTokens(r.Text, qTokens))
		} else {
			b.WriteString(dimStyle.Render("  " + title))
			b.WriteString("\n   ")
			b.WriteString(r.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// highlightTokens emphasizes the words of text that also occur in the query.
func highlightTokens(text string, queryTokens map[string]struct{}) string {
	if len(queryTokens) == 0 {
		return text
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := queryTokens[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
