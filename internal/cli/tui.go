package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/threadmap/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// NodeListModel - Interactive locked-node selection
// =============================================================================

// NodeListModel is the bubbletea model for choosing the locked node.
// Typing filters by ID or label.
type NodeListModel struct {
	Nodes    []graph.Node
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.Node

	visible []int // indexes into Nodes matching Filter
}

// NewNodeListModel creates a list over nodes with the cursor on the node
// whose ID is current, if any.
func NewNodeListModel(nodes []graph.Node, current string) NodeListModel {
	m := NodeListModel{Nodes: nodes, Height: 15}
	m.refilter()
	for i, idx := range m.visible {
		if nodes[idx].ID == current {
			m.Cursor = i
			m.scroll()
		}
	}
	return m
}

func (m *NodeListModel) refilter() {
	var vis []int
	q := strings.ToLower(m.Filter)
	for i, n := range m.Nodes {
		if q == "" || strings.Contains(strings.ToLower(n.ID), q) || strings.Contains(strings.ToLower(n.Label), q) {
			vis = append(vis, i)
		}
	}
	m.visible = vis
	m.Cursor = min(m.Cursor, max(len(m.visible)-1, 0))
	m.scroll()
}

func (m *NodeListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(m.Offset, 0)
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				m.scroll()
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			n := m.Nodes[m.visible[m.Cursor]]
			m.Selected = &n
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.refilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Locked Node"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(listNormalStyle.Render("filter: ") + listSelectedStyle.Render(m.Filter))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		kind := graph.KindConcept
		if n.IsTopic() {
			kind = graph.KindTopic
		}
		parent := n.Parent
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{cursor, n.ID, kind, n.DisplayLabel(), parent, positionText(n)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "ID", "Kind", "Label", "Parent", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[m.visible[idx]]
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case n.IsTopic():
				return styleTopic
			case col >= 4:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

func positionText(n graph.Node) string {
	if n.Position == nil {
		return "new"
	}
	return fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y)
}

// pickLocked shows the node list for the graph at path and returns the
// chosen ID, or "" when the user quits.
func pickLocked(path, current string) (string, error) {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return "", fmt.Errorf("load graph %s: %w", path, err)
	}
	if len(g.Nodes) == 0 {
		return "", nil
	}
	final, err := tea.NewProgram(NewNodeListModel(g.Nodes, current)).Run()
	if err != nil {
		return "", fmt.Errorf("node picker: %w", err)
	}
	if m, ok := final.(NodeListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
