package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar displays restore/copy progress with a percentage and label.
// Example: [=========>          ] 45% Restoring .config/i3
type ProgressBar struct {
	total   int
	current int
	label   string
	width   int
	mu      sync.Mutex
	writer  io.Writer
}

// NewProgress creates a new progress bar over total items.
func NewProgress(total int, label string) *ProgressBar {
	return &ProgressBar{
		total:  total,
		label:  label,
		width:  40,
		writer: os.Stdout,
	}
}

// SetWriter sets the output writer (useful for testing).
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// SetLabel updates the trailing label and redraws.
func (p *ProgressBar) SetLabel(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
	p.render()
}

// Increment advances the bar by one item and redraws.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if p.current > p.total {
		p.current = p.total
	}
	p.render()
}

// Finish completes the bar and moves to the next line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	if writerIsTTY(p.writer) {
		fmt.Fprintln(p.writer)
	}
}

// render draws the bar in place on a TTY; on non-TTY writers it emits
// one plain line per redraw so logs stay readable.
func (p *ProgressBar) render() {
	if p.total <= 0 {
		return
	}
	pct := p.current * 100 / p.total
	filled := p.width * p.current / p.total
	bar := strings.Repeat("=", filled)
	if filled < p.width {
		bar += ">" + strings.Repeat(" ", p.width-filled-1)
	}
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r[%s] %3d%% %s", bar, pct, p.label)
		return
	}
	fmt.Fprintf(p.writer, "[%s] %3d%% %s\n", bar, pct, p.label)
}
