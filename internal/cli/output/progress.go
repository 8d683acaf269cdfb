package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar displays progress of a counted operation.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int64
	current int64
	width   int
	last    int // last rendered percentage, to limit redraws
	mu      sync.Mutex
}

// NewProgressBar creates a progress bar for total units of work.
func NewProgressBar(w io.Writer, title string, total int64) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 40,
		last:  -1,
	}
}

// Increment adds n completed units. Safe for concurrent use.
func (p *ProgressBar) Increment(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.render(false)
}

// Current returns the number of completed units.
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish draws the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(true)
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render(force bool) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}
	pct := int(percent * 100)
	if !force && pct == p.last {
		return
	}
	p.last = pct

	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %3d%% (%d/%d)", p.title, bar, pct, p.current, p.total)
}
