package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/threadmap/pkg/graph"
)

func pickerNodes() []graph.Node {
	return []graph.Node{
		{ID: "t1", Kind: graph.KindTopic, Label: "Optics"},
		{ID: "c1", Parent: "t1", Label: "Refraction"},
		{ID: "c2", Parent: "t1", Label: "Lenses"},
	}
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNodeListModel(t *testing.T) {
	tests := []struct {
		name    string
		current string
		keys    []tea.KeyMsg
		want    string
	}{
		{"EnterFirst", "", []tea.KeyMsg{{Type: tea.KeyEnter}}, "t1"},
		{"StartsOnCurrent", "c2", []tea.KeyMsg{{Type: tea.KeyEnter}}, "c2"},
		{"Down", "", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, "c1"},
		{"DownClamps", "", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, "c2"},
		{"UpClamps", "", []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyEnter}}, "t1"},
		{"FilterLabel", "", []tea.KeyMsg{runes("lens"), {Type: tea.KeyEnter}}, "c2"},
		{"FilterBackspace", "", []tea.KeyMsg{runes("lensx"), {Type: tea.KeyBackspace}, {Type: tea.KeyEnter}}, "c2"},
		{"FilterNoMatch", "", []tea.KeyMsg{runes("zzz"), {Type: tea.KeyEnter}}, ""},
		{"Quit", "", []tea.KeyMsg{{Type: tea.KeyEsc}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewNodeListModel(pickerNodes(), tt.current), tt.keys...).(NodeListModel)
			got := ""
			if m.Selected != nil {
				got = m.Selected.ID
			}
			if got != tt.want {
				t.Errorf("selected %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeListModelView(t *testing.T) {
	m := NewNodeListModel(pickerNodes(), "")
	view := m.View()
	for _, want := range []string{"Select Locked Node", "Optics", "Refraction", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, runes("refr")).(NodeListModel)
	view = m.View()
	if strings.Contains(view, "Lenses") || !strings.Contains(view, "[1/1]") {
		t.Errorf("filtered view:\n%s", view)
	}
}

func TestNodeListModelScroll(t *testing.T) {
	var nodes []graph.Node
	for _, id := range strings.Split("a b c d e f g h i j", " ") {
		nodes = append(nodes, graph.Node{ID: id})
	}
	m := NewNodeListModel(nodes, "")
	m.Height = 3
	for range 5 {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown}).(NodeListModel)
	}
	if m.Cursor != 5 || m.Offset != 3 {
		t.Errorf("cursor %d offset %d, want 5 and 3", m.Cursor, m.Offset)
	}
}
