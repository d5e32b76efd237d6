package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/threadmap/pkg/graph"
)

// Terminal palette, by role.
var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorTopic   = lipgloss.Color("35")  // green, also success
	colorWarn    = lipgloss.Color("220") // amber
	colorFail    = lipgloss.Color("167") // soft red
	colorCommand = lipgloss.Color("75")  // light blue
	colorText    = lipgloss.Color("255")
	colorLabel   = lipgloss.Color("245")
	colorMuted   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleText    = lipgloss.NewStyle().Foreground(colorText)
	styleTopic   = lipgloss.NewStyle().Foreground(colorTopic)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markInfo  = "›"
	markFile  = "→"
	markSep   = " · "
	tagCached = "cached"
	tagFresh  = "fresh"
)

// console serializes status lines. Watch mode prints from timer goroutines.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

var stdout = &console{w: os.Stdout}

func (c *console) line(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, s)
}

func marked(style lipgloss.Style, mark, format string, args []any) string {
	return style.Render(mark) + " " + fmt.Sprintf(format, args...)
}

func printSuccess(format string, args ...any) {
	stdout.line(marked(styleTopic, markOK, format, args))
}

func printError(format string, args ...any) {
	stdout.line(marked(styleFail, markFail, format, args))
}

func printWarning(format string, args ...any) {
	stdout.line(styleWarn.Render(markWarn) + " " + styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	stdout.line(marked(styleLabel, markInfo, format, args))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	stdout.line("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	stdout.line("  " + styleMuted.Render(markFile) + " " + styleText.Render(path))
}

func printKeyValue(key, value string) {
	stdout.line(styleKey.Render(key) + " " + styleText.Render(value))
}

// statsLine summarizes a layout run: sizes, passes, whether collision
// resolution converged, and whether the result came from the cache.
func statsLine(nodes, edges int, st *graph.Stats, cached bool) string {
	parts := []string{fmt.Sprintf("%d nodes", nodes)}
	if edges > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edges))
	}
	if st != nil {
		parts = append(parts, fmt.Sprintf("%d passes", st.Passes))
		if !st.Converged {
			parts = append(parts, styleWarn.Render("unconverged"))
		}
		if st.Clamped > 0 {
			parts = append(parts, fmt.Sprintf("%d clamped", st.Clamped))
		}
	}
	if cached {
		parts = append(parts, styleTopic.Render(tagCached))
	} else {
		parts = append(parts, styleLabel.Render(tagFresh))
	}

	for i, p := range parts {
		parts[i] = styleMuted.Render(p)
	}
	return "  " + strings.Join(parts, styleMuted.Render(markSep))
}

func printStats(nodes, edges int, st *graph.Stats, cached bool) {
	stdout.line(statsLine(nodes, edges, st, cached))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	stdout.line(styleMuted.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { stdout.line("") }
