package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/podlens/pkg/pods"
	"github.com/matzehuels/podlens/pkg/readme"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ExampleListModel - Interactive example browser
// =============================================================================

// ExampleListModel is the bubbletea model behind "podlens browse". The list
// view shows one row per example; enter opens the code of the selected one.
type ExampleListModel struct {
	Result   *pods.Result
	Cursor   int
	Offset   int
	Height   int
	Viewing  bool
	Selected *readme.UsageExample
}

// NewExampleListModel creates a browser over res.Examples.
func NewExampleListModel(res *pods.Result) ExampleListModel {
	return ExampleListModel{Result: res, Height: 15}
}

func (m ExampleListModel) Init() tea.Cmd {
	return nil
}

func (m ExampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Result.Examples)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Viewing {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "backspace", "enter", "left", "h":
				m.Viewing = false
			}
			return m, nil
		}

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
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if n > 0 {
				m.Selected = &m.Result.Examples[m.Cursor]
				m.Viewing = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ExampleListModel) View() string {
	if m.Viewing && m.Selected != nil {
		return m.detailView()
	}

	var b strings.Builder
	title := m.Result.Name
	if m.Result.Version != "" {
		title += " " + m.Result.Version
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ view code  q quit"))
	b.WriteString("\n\n")

	if len(m.Result.Examples) == 0 {
		b.WriteString(StyleWarning.Render("No usage examples found"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Result.Examples))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		ex := m.Result.Examples[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, ex.Title, ex.Language, firstLine(ex.Code, 40)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Title", "Lang", "Code").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Foreground(colorDim)
			}
			if m.Offset+row == m.Cursor {
				if col == 3 {
					return base.Foreground(colorGray).Bold(true)
				}
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Examples))))
	return b.String()
}

func (m ExampleListModel) detailView() string {
	ex := m.Selected
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(ex.Title))
	b.WriteString(" ")
	b.WriteString(styleLanguage.Render("[" + ex.Language + "]"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	if ex.Description != "" {
		b.WriteString(StyleDim.Render(ex.Description))
		b.WriteString("\n\n")
	}
	b.WriteString(styleCode.Render(ex.Code))
	b.WriteString("\n")
	return b.String()
}

// firstLine returns the first line of s truncated to width runes.
func firstLine(s string, width int) string {
	line, _, more := strings.Cut(s, "\n")
	r := []rune(line)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
