package console

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar renders completion across a known number of work items. On
// non-terminal stdout it produces plain text like "50% (6/12)"; on a
// terminal it renders an animated bar.
type ProgressBar struct {
	total    int64
	current  int64
	progress progress.Model
}

// NewProgressBar creates a progress bar for a known item count.
func NewProgressBar(total int64) *ProgressBar {
	return &ProgressBar{
		total:    total,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Update records the current position and returns the rendered bar.
func (p *ProgressBar) Update(current int64) string {
	p.current = current

	if !isTTY() {
		percent := 100
		if p.total > 0 {
			percent = int(current * 100 / p.total)
		}
		return fmt.Sprintf("%d%% (%d/%d)", percent, current, p.total)
	}

	fraction := 1.0
	if p.total > 0 {
		fraction = float64(current) / float64(p.total)
	}
	return p.progress.ViewAs(fraction)
}
