package thesis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner executes one backup pass. A Runner is not safe for concurrent use;
// create it, call Run once from the worker goroutine and read the Result.
type Runner struct {
	opts   *Options
	filter *Filter
	obs    Observer
	log    zerolog.Logger

	table     *DedupTable
	stats     Stats
	thesisDir string
}

// NewRunner validates opts and prepares the filter. obs may be nil.
func NewRunner(opts *Options, log zerolog.Logger, obs Observer) (*Runner, error) {
	if opts.Source == "" {
		return nil, errors.New("source directory is required")
	}
	if opts.Target == "" {
		return nil, errors.New("target directory is required")
	}

	filter, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = nopObserver{}
	}

	return &Runner{
		opts:   opts,
		filter: filter,
		obs:    obs,
		log:    log,
	}, nil
}

// Run walks the source tree and copies the selected files. Per-file problems are
// logged and counted; only set-up failures are returned as errors. A cancelled
// run returns normally with Result.Cancelled set.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{
		RunID:     uuid.NewString(),
		Source:    filepath.Clean(r.opts.Source),
		Target:    filepath.Clean(r.opts.Target),
		StartedAt: time.Now(),
	}
	r.log = r.log.With().Str("run", res.RunID).Logger()
	r.table = NewDedupTable()
	r.stats = Stats{}

	if err := prepareDirectories(res.Source, res.Target); err != nil {
		return res, err
	}
	r.thesisDir = filepath.Join(res.Target, ThesisDirName)
	res.ThesisDir = r.thesisDir

	r.log.Info().Str("source", res.Source).Str("target", res.Target).
		Bool("include_non_thesis", r.opts.IncludeNonThesis).
		Bool("include_docx", r.opts.IncludeDocx).
		Float64("min_size_mb", r.opts.MinSizeMB).
		Msg("Starting backup")

	walk := Traversal{
		Root:          res.Source,
		ExcludedDirs:  r.opts.ExcludedDirs,
		SkipPaths:     []string{res.Target},
		MaxPathLength: r.opts.maxPath(),
		Log:           r.log,
		OnDirectory:   r.enterDirectory,
		OnFile: func(path string, _ fs.DirEntry) {
			r.processFile(path)
		},
	}
	cancelled, err := walk.Walk(ctx)

	res.Stats = r.stats
	res.Cancelled = cancelled
	res.FinishedAt = time.Now()
	if err != nil {
		return res, fmt.Errorf("failed to walk %s: %w", res.Source, err)
	}

	ev := r.log.Info()
	if cancelled {
		ev = r.log.Warn()
	}
	ev.Int("directories", res.Stats.Directories).
		Int("checked", res.Stats.Checked).
		Int("copied", res.Stats.Copied).
		Int("replaced", res.Stats.Replaced).
		Int("skipped", res.Stats.Skipped).
		Int("failed", res.Stats.Failed).
		Bool("cancelled", cancelled).
		Dur("took", res.Duration()).
		Msg("Backup finished")

	return res, nil
}

// prepareDirectories checks the source and creates the target and its Thesis folder
func prepareDirectories(source, target string) error {
	fi, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source directory not accessible: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("source %s is not a directory", source)
	}
	if err := os.MkdirAll(filepath.Join(target, ThesisDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	return nil
}

func (r *Runner) enterDirectory(path string) {
	r.stats.Directories++
	r.log.Info().Str("path", path).Msg("Scanning directory")
	r.obs.OnDirectory(path, r.stats)
}

// processFile runs one file through filter, dedup and copy. It never panics on I/O
// problems; every outcome ends in exactly one emitted event.
func (r *Runner) processFile(path string) {
	name := filepath.Base(path)
	ev := Event{Path: path}

	kind, reason := r.filter.Classify(name)
	ev.Kind = kind
	if reason == ReasonExtension {
		r.skip(ev, reason)
		return
	}
	if PathTooLong(path, r.opts.maxPath()) {
		r.skip(ev, ReasonPathTooLong)
		return
	}
	if reason != ReasonNone {
		r.skip(ev, reason)
		return
	}

	fi, err := os.Stat(path)
	if err != nil {
		ev.Err = err
		r.skip(ev, ReasonMissing)
		return
	}
	if !fi.Mode().IsRegular() {
		r.skip(ev, ReasonNotAccessible)
		return
	}
	ev.Size = fi.Size()
	if reason := r.filter.CheckSize(fi.Size()); reason != ReasonNone {
		r.skip(ev, reason)
		return
	}

	cand := Candidate{
		Path:    path,
		Name:    name,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		Kind:    kind,
	}

	if kind == KindOther {
		r.copyOther(cand, ev)
		return
	}
	cand.Key = NameKey(Stem(name))
	r.copyThesis(cand, ev)
}

// copyOther copies a save-all file into the target root without deduplication
func (r *Runner) copyOther(cand Candidate, ev Event) {
	dest, err := r.copy(cand, filepath.Dir(r.thesisDir))
	if err != nil {
		r.copyError(ev, err)
		return
	}
	ev.Dest = dest
	ev.Outcome = OutcomeCopied
	r.emit(ev)
}

func (r *Runner) copyThesis(cand Candidate, ev Event) {
	decision, prev := r.table.Decide(cand.Key, cand.ModTime)

	var (
		dest string
		err  error
	)
	switch decision {
	case DecisionDiscard:
		ev.Kept = prev.Source
		r.skip(ev, ReasonOlderVersion)
		return

	case DecisionReplace:
		// the retained copy is only removed once the newer file is known to fit and exist
		dest, err = r.replacementDest(cand.Name, prev.Dest)
		if err == nil {
			err = checkSource(cand.Path)
		}
		if err != nil {
			r.copyError(ev, err)
			return
		}
		if err := removeFile(prev.Dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
			// keep the retained copy and its entry; the newer file is left out
			ev.Err = err
			ev.Reason = ReasonDeleteFailed
			ev.Outcome = OutcomeFailed
			r.emit(ev)
			return
		}
		// nothing is retained from here on, so a failed copy lets the next version in
		r.table.Forget(cand.Key)
		ev.Superseded = prev.Dest

	default:
		dest, err = UniqueDestination(filepath.Join(r.thesisDir, cand.Name), r.opts.maxPath())
		if err != nil {
			r.copyError(ev, err)
			return
		}
	}

	if err := r.copyTo(cand, dest); err != nil {
		r.copyError(ev, err)
		return
	}
	r.table.Record(cand.Key, Entry{Source: cand.Path, Dest: dest, ModTime: cand.ModTime})

	ev.Dest = dest
	ev.Outcome = OutcomeCopied
	if decision == DecisionReplace {
		ev.Outcome = OutcomeReplaced
	}
	r.emit(ev)
}

// replacementDest picks the destination for name as if the copy at prevDest were
// already gone, so that the newer version can take over its name
func (r *Runner) replacementDest(name, prevDest string) (string, error) {
	prevDest = filepath.Clean(prevDest)
	return uniqueDestination(filepath.Join(r.thesisDir, name), r.opts.maxPath(), func(path string) (bool, error) {
		if filepath.Clean(path) == prevDest {
			return true, nil
		}
		return isFree(path)
	})
}

func (r *Runner) copy(cand Candidate, dir string) (string, error) {
	dest, err := UniqueDestination(filepath.Join(dir, cand.Name), r.opts.maxPath())
	if err != nil {
		return "", err
	}
	return dest, r.copyTo(cand, dest)
}

func (r *Runner) copyTo(cand Candidate, dest string) error {
	progress := r.obs.OnCopy(cand.Path, dest, cand.Size)
	return CopyFile(cand.Path, dest, progress)
}

// copyError maps copy failures onto the error taxonomy: missing source and
// over-long destinations are skips, everything else is a failure
func (r *Runner) copyError(ev Event, err error) {
	ev.Err = err
	switch {
	case errors.Is(err, ErrPathTooLong):
		r.skip(ev, ReasonPathTooLong)
	case errors.Is(err, ErrSourceMissing):
		r.skip(ev, ReasonMissing)
	default:
		ev.Reason = ReasonCopyFailed
		ev.Outcome = OutcomeFailed
		r.emit(ev)
	}
}

func (r *Runner) skip(ev Event, reason SkipReason) {
	ev.Outcome = OutcomeSkipped
	ev.Reason = reason
	r.emit(ev)
}

func (r *Runner) emit(ev Event) {
	r.stats.Checked++
	switch ev.Outcome {
	case OutcomeCopied:
		r.stats.Copied++
		r.stats.Bytes += ev.Size
	case OutcomeReplaced:
		r.stats.Replaced++
		r.stats.Bytes += ev.Size
	case OutcomeSkipped:
		r.stats.Skipped++
	case OutcomeFailed:
		r.stats.Failed++
	}

	r.obs.OnFile(ev, r.stats)
	r.logEvent(ev)
}

func (r *Runner) logEvent(ev Event) {
	switch ev.Outcome {
	case OutcomeCopied:
		r.log.Info().Str("path", ev.Path).Str("dest", ev.Dest).Stringer("kind", ev.Kind).Msg("Copied")
	case OutcomeReplaced:
		r.log.Info().Str("path", ev.Path).Str("dest", ev.Dest).Str("superseded", ev.Superseded).Msg("Replaced older copy")
	case OutcomeFailed:
		r.log.Error().Err(ev.Err).Str("path", ev.Path).Str("reason", string(ev.Reason)).Msg("Failed")
	case OutcomeSkipped:
		var le *zerolog.Event
		switch ev.Reason {
		case ReasonExtension:
			le = r.log.Trace()
		case ReasonPathTooLong, ReasonMissing, ReasonNotAccessible:
			le = r.log.Warn().Err(ev.Err)
		case ReasonOlderVersion:
			le = r.log.Info().Str("kept", ev.Kept)
		default:
			le = r.log.Debug()
		}
		le.Str("path", ev.Path).Str("reason", string(ev.Reason)).Msg("Skipping file")
	}
}
