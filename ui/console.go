package ui

import (
	"io"
	"path/filepath"
	"time"

	"github.com/lepinkainen/thesisbackup/thesis"
	"github.com/schollz/progressbar/v3"
)

var _ thesis.Observer = (*ConsoleObserver)(nil)

// minBarSize is the smallest copy that gets a progress bar
const minBarSize = 4 * 1024 * 1024

// ConsoleObserver draws a byte progress bar for each larger copy in plain mode.
// Diagnostic lines come from the logger, so directory and file events are not
// printed here.
type ConsoleObserver struct {
	w    io.Writer
	bars bool
	bar  *progressbar.ProgressBar
}

// NewConsoleObserver writes bars to w when bars is true, typically when w is a terminal
func NewConsoleObserver(w io.Writer, bars bool) *ConsoleObserver {
	return &ConsoleObserver{w: w, bars: bars}
}

func (o *ConsoleObserver) OnDirectory(string, thesis.Stats) {}

func (o *ConsoleObserver) OnFile(thesis.Event, thesis.Stats) {
	o.finishBar()
}

func (o *ConsoleObserver) OnCopy(src, _ string, size int64) io.Writer {
	o.finishBar()
	if !o.bars || size < minBarSize {
		return nil
	}

	o.bar = progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(o.w),
		progressbar.OptionSetDescription(filepath.Base(src)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return o.bar
}

func (o *ConsoleObserver) finishBar() {
	if o.bar != nil {
		_ = o.bar.Finish()
		o.bar = nil
	}
}
