package thesis

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// NameGroup is a set of thesis files that share a name key
type NameGroup struct {
	Key        string
	Normalized string
	// Files are sorted newest first; Files[0] is the one a backup keeps
	Files []Candidate
}

// Keeper returns the file a backup run would retain
func (g NameGroup) Keeper() Candidate {
	return g.Files[0]
}

// FindNameGroups walks opts.Source with the backup filter and returns every name key
// that more than one thesis file maps to. Nothing is copied.
func FindNameGroups(ctx context.Context, opts *Options, log zerolog.Logger) ([]NameGroup, error) {
	filter, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("source directory not accessible: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", opts.Source)
	}

	byKey := make(map[string]*NameGroup)
	walk := Traversal{
		Root:          opts.Source,
		ExcludedDirs:  opts.ExcludedDirs,
		MaxPathLength: opts.maxPath(),
		Log:           log,
		OnFile: func(path string, d fs.DirEntry) {
			kind, reason := filter.Classify(d.Name())
			if reason != ReasonNone || kind != KindThesis || PathTooLong(path, opts.maxPath()) {
				return
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				log.Debug().Err(err).Str("path", path).Msg("Skipping unreadable file")
				return
			}
			if filter.CheckSize(info.Size()) != ReasonNone {
				return
			}

			stem := Stem(d.Name())
			key := NameKey(stem)
			g, ok := byKey[key]
			if !ok {
				g = &NameGroup{Key: key, Normalized: NormalizeName(stem)}
				byKey[key] = g
			}
			g.Files = append(g.Files, Candidate{
				Path:    path,
				Name:    d.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Kind:    KindThesis,
				Key:     key,
			})
		},
	}

	cancelled, err := walk.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", opts.Source, err)
	}
	if cancelled {
		return nil, ctx.Err()
	}

	groups := make([]NameGroup, 0, len(byKey))
	for _, g := range byKey {
		if len(g.Files) < 2 {
			continue
		}
		// walk order breaks ties, matching which file a backup keeps on equal mtimes
		sort.SliceStable(g.Files, func(i, j int) bool {
			return g.Files[i].ModTime.After(g.Files[j].ModTime)
		})
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Normalized < groups[j].Normalized
	})
	return groups, nil
}
