package thesis

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectWalk(t *testing.T, ctx context.Context, walk Traversal) (files, dirs []string, cancelled bool) {
	t.Helper()
	walk.Log = zerolog.Nop()
	walk.OnDirectory = func(path string) {
		dirs = append(dirs, path)
	}
	walk.OnFile = func(path string, _ fs.DirEntry) {
		rel, err := filepath.Rel(walk.Root, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}
	cancelled, err := walk.Walk(ctx)
	require.NoError(t, err)
	return files, dirs, cancelled
}

func TestTraversalSkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Python", "a.pdf"), 1, time.Time{})
	writeFile(t, filepath.Join(root, "keep", "venv", "b.pdf"), 1, time.Time{})
	writeFile(t, filepath.Join(root, "keep", "c.pdf"), 1, time.Time{})
	writeFile(t, filepath.Join(root, "venvs", "d.pdf"), 1, time.Time{})

	files, _, cancelled := collectWalk(t, context.Background(), Traversal{
		Root:         root,
		ExcludedDirs: DefaultExcludedDirs,
	})

	assert.False(t, cancelled)
	assert.Equal(t, []string{"keep/c.pdf", "venvs/d.pdf"}, files)
}

func TestTraversalWalksExcludedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Python")
	writeFile(t, filepath.Join(root, "a.pdf"), 1, time.Time{})

	files, dirs, _ := collectWalk(t, context.Background(), Traversal{
		Root:         root,
		ExcludedDirs: []string{"Python"},
	})
	assert.Equal(t, []string{"a.pdf"}, files)
	assert.Equal(t, []string{root}, dirs)
}

func TestTraversalSkipsLongDirectories(t *testing.T) {
	root := t.TempDir()
	longDir := filepath.Join(root, strings.Repeat("x", 30))
	writeFile(t, filepath.Join(longDir, "a.pdf"), 1, time.Time{})
	writeFile(t, filepath.Join(root, "b.pdf"), 1, time.Time{})

	files, _, _ := collectWalk(t, context.Background(), Traversal{
		Root:          root,
		MaxPathLength: len(root) + 10,
	})
	assert.Equal(t, []string{"b.pdf"}, files)
}

func TestTraversalCancelledBeforeStart(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), 1, time.Time{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, dirs, cancelled := collectWalk(t, ctx, Traversal{Root: root})
	assert.True(t, cancelled)
	assert.Empty(t, files)
	assert.Empty(t, dirs)
}

func TestTraversalStopsAfterCancel(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"} {
		writeFile(t, filepath.Join(root, "sub", name), 1, time.Time{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []string
	walk := Traversal{
		Root: root,
		Log:  zerolog.Nop(),
		OnFile: func(path string, _ fs.DirEntry) {
			seen = append(seen, filepath.Base(path))
			if len(seen) == 2 {
				cancel()
			}
		},
	}
	cancelled, err := walk.Walk(ctx)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, seen)
}

func TestTraversalMissingRoot(t *testing.T) {
	walk := Traversal{Root: filepath.Join(t.TempDir(), "missing"), Log: zerolog.Nop()}
	_, err := walk.Walk(context.Background())
	assert.Error(t, err)
}

func TestTraversalSkipsTargetInsideSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "backup", "Thesis", "a.pdf"), 1, time.Time{})
	writeFile(t, filepath.Join(root, "b.pdf"), 1, time.Time{})

	files, _, _ := collectWalk(t, context.Background(), Traversal{
		Root:      root,
		SkipPaths: []string{filepath.Join(root, "backup")},
	})
	assert.Equal(t, []string{"b.pdf"}, files)
}
