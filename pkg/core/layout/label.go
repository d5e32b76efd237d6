package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/threadmap/pkg/core/geom"
)

// EstimateLabelSize estimates the on-screen footprint of a label with the
// default parameters.
func EstimateLabelSize(label string) geom.Size {
	return DefaultParams().EstimateLabelSize(label)
}

// EstimateLabelSize wraps the label into lines of at most Label.LineChars
// characters and turns the line count and longest line into a clamped box.
// Blank labels get the fixed empty footprint.
func (p Params) EstimateLabelSize(label string) geom.Size {
	lp := p.Label
	lines := WrapLabel(label, lp.LineChars)
	if len(lines) == 0 {
		return geom.Size{Width: lp.EmptyWidth, Height: lp.EmptyHeight}
	}

	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return geom.Size{
		Width:  geom.Clamp(float64(longest)*lp.CharWidth+lp.PadX, lp.MinWidth, lp.MaxWidth),
		Height: geom.Clamp(float64(len(lines))*lp.LineHeight+lp.PadY, lp.MinHeight, lp.MaxHeight),
	}
}

// WrapLabel greedily packs whitespace-separated words into lines of at most
// width characters. Words are never split; a word longer than width gets a
// line of its own. A blank label yields no lines.
func WrapLabel(label string, width int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	n := utf8.RuneCountInString(current)
	for _, w := range words[1:] {
		wn := utf8.RuneCountInString(w)
		if n+1+wn <= width {
			current += " " + w
			n += 1 + wn
			continue
		}
		lines = append(lines, current)
		current, n = w, wn
	}
	return append(lines, current)
}
