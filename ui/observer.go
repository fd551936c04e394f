package ui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/thesisbackup/thesis"
)

var _ thesis.Observer = (*ProgramObserver)(nil)

// Sender is the part of *tea.Program the observer needs
type Sender interface {
	Send(msg tea.Msg)
}

// progressInterval limits how often copy progress and bare counter updates are
// pushed to the program
const progressInterval = 100 * time.Millisecond

// ProgramObserver forwards worker progress to a running bubbletea program.
// Files that end up in the processed list are always sent; the rest only refresh
// the counters, at most every progressInterval.
type ProgramObserver struct {
	program Sender

	mu       sync.Mutex
	lastFile time.Time
}

// NewProgramObserver wraps p, usually a *tea.Program
func NewProgramObserver(p Sender) *ProgramObserver {
	return &ProgramObserver{program: p}
}

func (o *ProgramObserver) OnDirectory(path string, stats thesis.Stats) {
	o.program.Send(DirectoryMsg{Path: path, Stats: stats})
}

func (o *ProgramObserver) OnFile(ev thesis.Event, stats thesis.Stats) {
	_, listed := logEntry(ev)

	o.mu.Lock()
	now := time.Now()
	send := listed || now.Sub(o.lastFile) >= progressInterval
	if send {
		o.lastFile = now
	}
	o.mu.Unlock()

	if send {
		o.program.Send(FileMsg{Event: ev, Stats: stats})
	}
}

func (o *ProgramObserver) OnCopy(src, dst string, size int64) io.Writer {
	o.program.Send(CopyStartedMsg{Src: src, Dst: dst, Size: size})
	return &copyProgressWriter{program: o.program, src: src, size: size}
}

// copyProgressWriter counts copied bytes and reports them at most every progressInterval
type copyProgressWriter struct {
	program Sender
	src     string
	size    int64

	mu       sync.Mutex
	written  int64
	lastSent time.Time
}

func (w *copyProgressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.written += int64(len(p))
	now := time.Now()
	send := w.written >= w.size || now.Sub(w.lastSent) >= progressInterval
	if send {
		w.lastSent = now
	}
	written := w.written
	w.mu.Unlock()

	if send {
		w.program.Send(CopyProgressMsg{Src: w.src, Written: written, Size: w.size})
	}
	return len(p), nil
}
