package indexer

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressReporter receives per-file progress from IndexFiles
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// BarProgress renders indexing progress as a terminal progress bar
type BarProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarProgress returns a progress bar writing to out, or nil when disabled
func NewBarProgress(enabled bool, out io.Writer) ProgressReporter {
	if !enabled {
		return nil
	}
	return &BarProgress{out: out}
}

func (p *BarProgress) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *BarProgress) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *BarProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// DefaultProgressEnabled reports whether stderr is an interactive terminal
func DefaultProgressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
