package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// spinner animates on stderr while work runs and, when given a total, shows
// how many items are finished. It draws nothing unless stderr is a
// terminal. The zero-work methods are safe on a spinner that never drew.
type spinner struct {
	w     io.Writer
	label string
	total int
	n     atomic.Int64

	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
	last int // width of the last frame, for clearing
}

// startSpinner starts a stderr spinner. It stops by itself when ctx ends.
func startSpinner(ctx context.Context, label string, total int) *spinner {
	fd := os.Stderr.Fd()
	var w io.Writer
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		w = os.Stderr
	}
	return startSpinnerTo(ctx, w, label, total)
}

// startSpinnerTo draws on w; a nil w disables drawing.
func startSpinnerTo(ctx context.Context, w io.Writer, label string, total int) *spinner {
	s := &spinner{w: w, label: label, total: total, quit: make(chan struct{})}
	if w == nil {
		return s
	}
	s.wg.Add(1)
	go s.loop(ctx)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer s.wg.Done()
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.quit:
			s.clear()
			return
		case <-t.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

// text is the line after the frame glyph.
func (s *spinner) text() string {
	if s.total <= 1 {
		return s.label
	}
	return fmt.Sprintf("%s %d/%d", s.label, s.n.Load(), s.total)
}

func (s *spinner) draw(frame rune) {
	line := s.text()
	fmt.Fprintf(s.w, "\r%s %s", styleAccent.Render(string(frame)), styleMuted.Render(line))
	s.last = len([]rune(line)) + 2
}

func (s *spinner) clear() {
	if s.last > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.last))
	}
}

// step marks one item finished. It may be called from any goroutine.
func (s *spinner) step() { s.n.Add(1) }

// stop ends the animation and clears the line. Later calls do nothing.
func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}

// fail stops the spinner and reports msg as an error line.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
