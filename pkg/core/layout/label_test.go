package layout

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= tol }

func approxPt(a, b geom.Point) bool { return approx(a.X, b.X) && approx(a.Y, b.Y) }

func TestEstimateLabelSize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  geom.Size
	}{
		{"empty", "", geom.Size{Width: 96, Height: 56}},
		{"whitespace only", " \t\n ", geom.Size{Width: 96, Height: 56}},
		{"single char clamps to minimum", "X", geom.Size{Width: 110, Height: 60}},
		{"exactly one full line", "Linear Algebra", geom.Size{Width: 146.8, Height: 60}},
		{"surrounding whitespace ignored", "  Linear   Algebra  ", geom.Size{Width: 146.8, Height: 60}},
		{"long word is not split", "Supercalifragilisticexpialidocious", geom.Size{Width: 240, Height: 60}},
		{"four lines", "the quick brown fox jumps over the lazy dog", geom.Size{Width: 146.8, Height: 132}},
		{"height clamps", strings.Repeat("abcdefghij ", 9), geom.Size{Width: 114, Height: 220}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateLabelSize(tt.label)
			if !approx(got.Width, tt.want.Width) || !approx(got.Height, tt.want.Height) {
				t.Errorf("EstimateLabelSize(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestEstimateLabelSizeCountsRunes(t *testing.T) {
	// 14 runes, more than 14 bytes.
	got := EstimateLabelSize("Ökonomie Übung")
	want := EstimateLabelSize("Okonomie Ubung")
	if got != want {
		t.Errorf("EstimateLabelSize(non-ASCII) = %+v, want %+v", got, want)
	}
}

func TestWrapLabel(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"Linear Algebra", []string{"Linear Algebra"}},
		{"Linear Algebras", []string{"Linear", "Algebras"}},
		{"the quick brown fox jumps over the lazy dog", []string{"the quick", "brown fox", "jumps over the", "lazy dog"}},
		{"a Supercalifragilistic b", []string{"a", "Supercalifragilistic", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := WrapLabel(tt.label, 14)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WrapLabel(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestRadius(t *testing.T) {
	tests := []struct {
		name string
		node threadmap.Node
		want float64
	}{
		{"concept ignores label", threadmap.Node{Kind: threadmap.Concept, Label: "the quick brown fox jumps over the lazy dog"}, 72},
		{"topic minimum clearance", threadmap.Node{Kind: threadmap.Topic, Label: "Linear Algebra"}, 168},
		{"topic blank label", threadmap.Node{Kind: threadmap.Topic}, 168},
		{"topic label driven clearance", threadmap.Node{Kind: threadmap.Topic, Label: "the quick brown fox jumps over the lazy dog"}, 120 + 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Radius(tt.node); !approx(got, tt.want) {
				t.Errorf("Radius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopicToConceptRatio(t *testing.T) {
	p := DefaultParams()
	ratio := p.BaseRadius(threadmap.Topic) / p.BaseRadius(threadmap.Concept)
	if ratio < 1.5 || ratio > 1.7 {
		t.Errorf("base radius ratio = %v, want about 1.67", ratio)
	}
}

func TestSeparation(t *testing.T) {
	x := threadmap.Node{Kind: threadmap.Concept, Label: "X"}
	if got := DefaultParams().Separation(x, x); got != 160 {
		t.Errorf("Separation(concept, concept) = %v, want 160", got)
	}

	// Wide labels dominate the radius term: 120+120+20 > 72+72+16.
	wide := threadmap.Node{Kind: threadmap.Concept, Label: "Supercalifragilisticexpialidocious"}
	if got := DefaultParams().Separation(wide, wide); got != 260 {
		t.Errorf("Separation(wide, wide) = %v, want 260", got)
	}
}
