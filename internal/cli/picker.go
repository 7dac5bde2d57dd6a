package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cornerstone/pkg/suite"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// SuitePickerModel is the bubbletea model for choosing a subset of suites.
type SuitePickerModel struct {
	Suites []suite.Suite
	Cursor int
	Picked []bool
	Done   bool
}

// NewSuitePickerModel creates a picker over the catalog's suites with
// nothing selected.
func NewSuitePickerModel(cat *suite.Catalog) SuitePickerModel {
	suites := cat.Suites()
	return SuitePickerModel{
		Suites: suites,
		Picked: make([]bool, len(suites)),
	}
}

func (m SuitePickerModel) Init() tea.Cmd {
	return nil
}

func (m SuitePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Suites)-1 {
			m.Cursor++
		}
	case " ", "x":
		if len(m.Picked) > 0 {
			m.Picked = append([]bool(nil), m.Picked...)
			m.Picked[m.Cursor] = !m.Picked[m.Cursor]
		}
	case "a":
		all := !m.allPicked()
		m.Picked = make([]bool, len(m.Suites))
		for i := range m.Picked {
			m.Picked[i] = all
		}
	case "enter":
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SuitePickerModel) allPicked() bool {
	for _, p := range m.Picked {
		if !p {
			return false
		}
	}
	return len(m.Picked) > 0
}

// Selection returns the picked suite names in catalog order, or nil when
// the picker was dismissed.
func (m SuitePickerModel) Selection() []string {
	if !m.Done {
		return nil
	}
	var names []string
	for i, s := range m.Suites {
		if m.Picked[i] {
			names = append(names, s.Name)
		}
	}
	return names
}

func (m SuitePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Suites"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ place  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Suites))
	for i, s := range m.Suites {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Picked[i] {
			mark = "[x]"
		}
		rows[i] = []string{cursor, mark, s.Name, fmt.Sprint(s.CornerstoneLen), fmt.Sprint(s.EntrypointLen)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Suite", "Cornerstone", "Entrypoint").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(m.Suites) {
				return lipgloss.NewStyle()
			}
			switch {
			case row == m.Cursor:
				return listSelectedStyle
			case m.Picked[row]:
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	picked := 0
	for _, p := range m.Picked {
		if p {
			picked++
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", picked, len(m.Suites))))

	return b.String()
}

// pickSuites runs the picker and returns the chosen suite names in catalog
// order. A nil result means the user quit without confirming.
func pickSuites(ctx context.Context, cat *suite.Catalog, in io.Reader, out io.Writer) ([]string, error) {
	p := tea.NewProgram(NewSuitePickerModel(cat),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("suite picker: %w", err)
	}
	m, ok := final.(SuitePickerModel)
	if !ok {
		return nil, nil
	}
	return m.Selection(), nil
}
