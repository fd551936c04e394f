package thesis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNameGroups(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.Source, "a", "BA_Mueller_v1.pdf"), twoMB, t1)
	writeFile(t, filepath.Join(opts.Source, "b", "BA-Mueller-v2.pdf"), twoMB, t2)
	writeFile(t, filepath.Join(opts.Source, "b", "BA Mueller (3).pdf"), bytesPerMB/4, t2)
	writeFile(t, filepath.Join(opts.Source, "c", "Dissertation.pdf"), twoMB, t1)
	writeFile(t, filepath.Join(opts.Source, "c", "Abschlussarbeit_1.pdf"), twoMB, t1)
	writeFile(t, filepath.Join(opts.Source, "d", "Abschlussarbeit_2.pdf"), twoMB, t1)

	groups, err := FindNameGroups(context.Background(), opts, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "abschlussarbeit", groups[0].Normalized)
	require.Len(t, groups[0].Files, 2)
	// equal times keep walk order
	assert.Equal(t, "Abschlussarbeit_1.pdf", groups[0].Keeper().Name)

	assert.Equal(t, "bamuellerv", groups[1].Normalized)
	require.Len(t, groups[1].Files, 2)
	assert.Equal(t, "BA-Mueller-v2.pdf", groups[1].Keeper().Name)
	assert.Equal(t, NameKey("BA_Mueller_v1"), groups[1].Key)

	// nothing is written
	assert.NoDirExists(t, opts.Target)
}

func TestFindNameGroupsCancelled(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, filepath.Join(opts.Source, "Thesis.pdf"), twoMB, t1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindNameGroups(ctx, opts, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindNameGroupsMissingSource(t *testing.T) {
	opts := testOptions(t)
	opts.Source = filepath.Join(opts.Source, "nope")
	_, err := FindNameGroups(context.Background(), opts, zerolog.Nop())
	assert.Error(t, err)
}
