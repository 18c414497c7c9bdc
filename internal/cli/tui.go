package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/review"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// PackListModel - Interactive pack selection
// =============================================================================

// PackListModel is the bubbletea model for choosing a pack from search results.
type PackListModel struct {
	Title    string
	Packs    []mod.Pack
	Cursor   int
	Selected *mod.Pack
	Height   int
	Offset   int
}

// NewPackListModel creates a pack list over search results.
func NewPackListModel(title string, packs []mod.Pack) PackListModel {
	return PackListModel{Title: title, Packs: packs, Height: 15}
}

func (m PackListModel) Init() tea.Cmd {
	return nil
}

func (m PackListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Packs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			pack := m.Packs[m.Cursor]
			m.Selected = &pack
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Packs) {
		end = len(m.Packs)
	}

	for i := m.Offset; i < end; i++ {
		p := m.Packs[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-32s %8s  %s",
			cursor, p.Name, formatDownloads(p.Downloads), listDimStyle.Render(truncate(p.Description, 48)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packs))))

	return b.String()
}

// =============================================================================
// ProgressModel - Modal progress with a skip key
// =============================================================================

// progressDoneMsg signals that the background operation finished.
type progressDoneMsg struct{}

type progressTickMsg time.Time

// ProgressModel shows a spinner and title while a background operation runs.
// Pressing "s" or escape calls the skip callback (which cancels the
// operation's context) and the model waits for the operation to wind down.
type ProgressModel struct {
	Title    string
	Skip     func()
	Skipping bool
	frame    int
}

// NewProgressModel creates a progress modal. skip is invoked at most once.
func NewProgressModel(title string, skip func()) ProgressModel {
	return ProgressModel{Title: title, Skip: skip}
}

func (m ProgressModel) Init() tea.Cmd {
	return progressTick()
}

func progressTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "s", "esc", "ctrl+c":
			if !m.Skipping {
				m.Skipping = true
				if m.Skip != nil {
					m.Skip()
				}
			}
		}
	case progressDoneMsg:
		return m, tea.Quit
	case progressTickMsg:
		m.frame++
		return m, progressTick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	title := m.Title
	if m.Skipping {
		title = "Skipping..."
	}
	return fmt.Sprintf("%s %s\n%s\n",
		styleIconSpinner.Render(frame), StyleDim.Render(title),
		listDimStyle.Render("s skip"))
}

// =============================================================================
// ReviewModel - Confirmation list with per-row deselection
// =============================================================================

// ReviewModel is the bubbletea model for the final confirmation list.
// Every row starts checked; space toggles, enter approves, q declines.
type ReviewModel struct {
	Rows     []review.Row
	Checked  []bool
	Cursor   int
	Approved bool
	done     bool
}

// NewReviewModel creates a review list with all rows checked.
func NewReviewModel(rows []review.Row) ReviewModel {
	checked := make([]bool, len(rows))
	for i := range checked {
		checked[i] = true
	}
	return ReviewModel{Rows: rows, Checked: checked}
}

// Decision converts the final model state into a review decision.
func (m ReviewModel) Decision() review.Decision {
	d := review.Decision{Approved: m.Approved}
	if !m.Approved {
		return d
	}
	for i, row := range m.Rows {
		if !m.Checked[i] {
			d.Deselected = append(d.Deselected, row.Task)
		}
	}
	return d
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Approved = false
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
	case " ":
		if len(m.Rows) > 0 {
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		}
	case "enter":
		m.Approved = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ReviewModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Confirm Downloads"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("␣ toggle  ⏎ confirm  q cancel"))
	b.WriteString("\n\n")

	for i, row := range m.Rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := iconChecked
		if !m.Checked[i] {
			check = iconUncheck
		}

		line := fmt.Sprintf("%s%s %-28s %-30s %s",
			cursor, check, row.Name, row.FileName, styleProvider.Render(row.Provider))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")

		if len(row.RequiredBy) > 0 {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("      %s required by %s",
				iconRequired, strings.Join(row.RequiredBy, ", "))))
			b.WriteString("\n")
		}
	}

	kept := 0
	for _, c := range m.Checked {
		if c {
			kept++
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", kept, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
