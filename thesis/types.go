package thesis

import (
	"io"
	"time"
)

// FileKind classifies an accepted file
type FileKind int

const (
	// KindThesis files are deduplicated into the Thesis folder
	KindThesis FileKind = iota
	// KindOther files are only copied in save-all mode, straight into the target root
	KindOther
)

func (k FileKind) String() string {
	if k == KindThesis {
		return "thesis"
	}
	return "other"
}

// Candidate is a file that passed the filter
type Candidate struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Kind    FileKind
	Key     string // normalized-name hash, empty for KindOther
}

// Outcome describes what happened to a single file
type Outcome string

const (
	OutcomeCopied   Outcome = "copied"
	OutcomeReplaced Outcome = "replaced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// SkipReason explains why a file was not copied
type SkipReason string

const (
	ReasonNone          SkipReason = ""
	ReasonExtension     SkipReason = "not a candidate extension"
	ReasonRejected      SkipReason = "reject keyword"
	ReasonNotThesis     SkipReason = "not a thesis file"
	ReasonTooSmall      SkipReason = "below minimum size"
	ReasonOlderVersion  SkipReason = "older version"
	ReasonPathTooLong   SkipReason = "path too long"
	ReasonMissing       SkipReason = "file missing"
	ReasonDeleteFailed  SkipReason = "could not remove superseded copy"
	ReasonCopyFailed    SkipReason = "copy failed"
	ReasonNotAccessible SkipReason = "not accessible"
)

// Event is emitted once per file the pipeline looks at
type Event struct {
	Path       string
	Dest       string
	Superseded string // destination removed in favour of this file
	Kept       string // retained file that made this one redundant
	Kind       FileKind
	Outcome    Outcome
	Reason     SkipReason
	Size       int64
	Err        error
}

// Stats holds the run counters. The worker owns them; observers receive copies.
type Stats struct {
	Directories int
	Checked     int
	Copied      int
	Replaced    int
	Skipped     int
	Failed      int
	Bytes       int64
}

// Result is returned from a run
type Result struct {
	RunID      string
	Source     string
	Target     string
	ThesisDir  string
	Stats      Stats
	Cancelled  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Observer receives progress from the worker goroutine. Implementations must not block for long.
type Observer interface {
	OnDirectory(path string, stats Stats)
	OnFile(ev Event, stats Stats)
	// OnCopy is called before bytes are copied. The returned writer, if not nil, receives every
	// copied chunk.
	OnCopy(src, dst string, size int64) io.Writer
}

type nopObserver struct{}

func (nopObserver) OnDirectory(string, Stats)              {}
func (nopObserver) OnFile(Event, Stats)                    {}
func (nopObserver) OnCopy(string, string, int64) io.Writer { return nil }
