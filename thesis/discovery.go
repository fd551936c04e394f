package thesis

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
)

const irregularMode = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

// Traversal walks a source tree applying the directory rules: excluded names,
// the path length limit and cooperative cancellation.
type Traversal struct {
	Root         string
	ExcludedDirs []string
	// SkipPaths are directories never entered, such as a backup target inside the source
	SkipPaths     []string
	MaxPathLength int
	Log           zerolog.Logger

	OnDirectory func(path string)
	OnFile      func(path string, d fs.DirEntry)
}

// Walk visits the tree in lexical order. Cancellation is checked before every
// directory and file; when ctx is done the walk stops and cancelled is true.
// Only a failure to read the root itself is returned as an error.
func (t *Traversal) Walk(ctx context.Context) (cancelled bool, err error) {
	root := filepath.Clean(t.Root)
	limit := t.MaxPathLength
	if limit <= 0 {
		limit = DefaultMaxPathLength
	}

	excluded := make(map[string]bool, len(t.ExcludedDirs))
	for _, name := range t.ExcludedDirs {
		excluded[name] = true
	}

	skip := make(map[string]bool, len(t.SkipPaths))
	for _, p := range t.SkipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			cancelled = true
			return filepath.SkipAll
		}

		if walkErr != nil {
			if d == nil {
				// root could not be read at all
				return walkErr
			}
			t.Log.Warn().Err(walkErr).Str("path", path).Msg("Skipping inaccessible entry")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				t.Log.Debug().Str("path", path).Msg("Skipping excluded directory")
				return filepath.SkipDir
			}
			if path != root && len(skip) > 0 {
				if abs, err := filepath.Abs(path); err == nil && skip[abs] {
					t.Log.Debug().Str("path", path).Msg("Skipping backup target inside source")
					return filepath.SkipDir
				}
			}
			if PathTooLong(path, limit) {
				t.Log.Warn().Str("path", path).Msg("Skipping directory (path too long)")
				return filepath.SkipDir
			}
			if t.OnDirectory != nil {
				t.OnDirectory(path)
			}
			return nil
		}

		if d.Type()&irregularMode != 0 {
			return nil
		}
		if t.OnFile != nil {
			t.OnFile(path, d)
		}
		return nil
	})

	return cancelled, err
}
