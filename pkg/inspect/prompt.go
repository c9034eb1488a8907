package inspect

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultHeight is how many items a select prompt shows at once
const DefaultHeight = 10

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Choose   key.Binding
	Cancel   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
	Choose:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "cancel")),
}

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// selectModel is a single-choice list with a scrolling window
type selectModel struct {
	prompt    string
	items     []string
	cursor    int
	offset    int
	height    int
	chosen    bool
	cancelled bool
}

func newSelectModel(prompt string, items []string, def, height int) selectModel {
	if height <= 0 {
		height = DefaultHeight
	}
	m := selectModel{prompt: prompt, items: items, height: height}
	if len(items) > 0 {
		m.cursor = clamp(def, len(items))
	}
	m.scroll()
	return m
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Choose):
		if len(m.items) == 0 {
			m.cancelled = true
		} else {
			m.chosen = true
		}
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		m.move(-1)
	case key.Matches(keyMsg, keys.Down):
		m.move(1)
	case key.Matches(keyMsg, keys.Home):
		m.cursor = 0
	case key.Matches(keyMsg, keys.End):
		m.cursor = len(m.items) - 1
	case key.Matches(keyMsg, keys.PageUp):
		m.move(-m.height)
	case key.Matches(keyMsg, keys.PageDown):
		m.move(m.height)
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
	return m, nil
}

// move shifts the cursor by delta without wrapping
func (m *selectModel) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, len(m.items))
}

// scroll keeps the cursor inside the visible window
func (m *selectModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m selectModel) View() string {
	if m.chosen {
		return fmt.Sprintf("%s %s %s\n", confirmStyle.Render("✔"), promptStyle.Render(m.prompt), selectedStyle.Render(m.items[m.cursor]))
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", cursorStyle.Render("?"), promptStyle.Render(m.prompt))

	end := min(m.offset+m.height, len(m.items))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			fmt.Fprintf(&b, "%s %s\n", cursorStyle.Render("❯"), selectedStyle.Render(m.items[i]))
		} else {
			fmt.Fprintf(&b, "  %s\n", m.items[i])
		}
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d/%d · enter select · esc cancel", m.cursor+1, len(m.items))))
	b.WriteString("\n")
	return b.String()
}

// confirmModel waits for any acknowledging key
type confirmModel struct {
	prompt string
	done   bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, keys.Choose) || key.Matches(keyMsg, keys.Cancel) {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", confirmStyle.Render("❯"), m.prompt)
}

// TerminalPrompter shows prompts as small bubbletea programs
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	height int
}

// NewTerminalPrompter reads keys from stdin and draws on stderr
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{in: os.Stdin, out: os.Stderr, height: DefaultHeight}
}

func (p *TerminalPrompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	return program.Run()
}

// Select shows items and returns the chosen index
func (p *TerminalPrompter) Select(ctx context.Context, prompt string, items []string, def int) (int, bool, error) {
	final, err := p.run(ctx, newSelectModel(prompt, items, def, p.height))
	if err != nil {
		return 0, false, fmt.Errorf("prompt %q: %w", prompt, err)
	}
	m := final.(selectModel)
	if !m.chosen {
		return 0, false, nil
	}
	return m.cursor, true, nil
}

// Confirm blocks until the user presses Enter
func (p *TerminalPrompter) Confirm(ctx context.Context, prompt string) error {
	if _, err := p.run(ctx, confirmModel{prompt: prompt}); err != nil {
		return fmt.Errorf("prompt %q: %w", prompt, err)
	}
	return nil
}
