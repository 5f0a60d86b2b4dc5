package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pixelfold/quadpress/pkg/quadtree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MenuModel - Interactive compression session
// =============================================================================

// menuAction identifies an operation the menu can perform on the raster.
type menuAction int

const (
	actionLambda menuAction = iota
	actionRho
	actionShow
	actionReload
	actionSave
	actionQuit
)

// menuItem pairs an action with its display label.
type menuItem struct {
	action menuAction
	label  string
}

// MenuModel is the bubbletea model for an interactive session over a
// single raster. The tree is mutated in place by the compression
// actions; Reload rebuilds it from the file.
type MenuModel struct {
	Path   string
	Ratio  int
	Output string

	tree    *quadtree.Tree
	initial int
	items   []menuItem
	cursor  int
	status  string
	failed  bool
	quit    bool
}

// NewMenuModel creates a menu over the raster at path. Rho compression
// uses ratio, and Save writes to output.
func NewMenuModel(path string, ratio int, output string, tree *quadtree.Tree) MenuModel {
	return MenuModel{
		Path:    path,
		Ratio:   ratio,
		Output:  output,
		tree:    tree,
		initial: tree.Count(),
		items: []menuItem{
			{actionLambda, "Lambda compress"},
			{actionRho, fmt.Sprintf("Rho compress to %d%%", ratio)},
			{actionShow, "Show structure"},
			{actionReload, "Reload raster"},
			{actionSave, "Save raster"},
			{actionQuit, "Quit"},
		},
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m.run(m.items[m.cursor].action)
		}
	}
	return m, nil
}

// run performs the selected action and records the outcome in the
// status line.
func (m MenuModel) run(action menuAction) (tea.Model, tea.Cmd) {
	m.failed = false
	switch action {
	case actionLambda:
		delta := m.tree.CompressLambda()
		m.status = fmt.Sprintf("lambda removed %d nodes", -delta)
	case actionRho:
		delta, err := m.tree.CompressRho(m.Ratio)
		if err != nil {
			m.failed = true
			m.status = err.Error()
			break
		}
		m.status = fmt.Sprintf("rho removed %d nodes", -delta)
	case actionShow:
		m.status = truncate(m.tree.String(), 120)
	case actionReload:
		tree, err := loadTree(m.Path)
		if err != nil {
			m.failed = true
			m.status = err.Error()
			break
		}
		m.tree = tree
		m.initial = tree.Count()
		m.status = "raster reloaded"
	case actionSave:
		if err := saveGrid(m.tree.Grid(), m.Output); err != nil {
			m.failed = true
			m.status = err.Error()
			break
		}
		m.status = "saved to " + m.Output
	case actionQuit:
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Path))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + item.label
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + StyleDim.Render(compressionStats(m.initial, m.tree.Count())))
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString("  " + StyleWarning.Render(m.status))
		} else {
			b.WriteString("  " + StyleSuccess.Render(m.status))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// truncate shortens s for single-line status display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
