package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/thesisbackup/thesis"
	"github.com/lepinkainen/thesisbackup/types"
	"github.com/lepinkainen/thesisbackup/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Backup     BackupCmd     `cmd:""`
	Duplicates DuplicatesCmd `cmd:""`
	Version    VersionCmd    `cmd:""`
}

// captureOutput redirects command output and disables terminal detection
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	origOut, origErr, origTerm := stdout, stderr, isTerminal
	stdout, stderr = out, errOut
	isTerminal = func(*os.File) bool { return false }
	t.Cleanup(func() {
		stdout, stderr, isTerminal = origOut, origErr, origTerm
	})
	return out, errOut
}

func writeThesis(t *testing.T, path string, size int, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func parseCLI(t *testing.T, args ...string) (*kong.Context, error) {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Exit(func(int) {}), kong.Bind(&types.AppContext{Version: "test"}))
	require.NoError(t, err)
	return parser.Parse(args)
}

func TestFilterFlagDefaults(t *testing.T) {
	src := t.TempDir()

	var cli testCLI
	parser, err := kong.New(&cli, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"backup", src, filepath.Join(t.TempDir(), "dst")})
	require.NoError(t, err)

	assert.Equal(t, thesis.DefaultMinSizeMB, cli.Backup.MinSize)
	assert.Equal(t, thesis.DefaultExcludedDirs, cli.Backup.ExcludeDir)
	assert.False(t, cli.Backup.IncludeNonThesis)
	assert.False(t, cli.Backup.IncludeDocx)
}

func TestBackupValidate(t *testing.T) {
	src := t.TempDir()

	_, err := parseCLI(t, "backup", "--min-size=5.5", src, filepath.Join(t.TempDir(), "dst"))
	assert.Error(t, err)

	_, err = parseCLI(t, "backup", "--min-size=0.25", src, filepath.Join(t.TempDir(), "dst"))
	assert.Error(t, err)

	_, err = parseCLI(t, "backup", src, src)
	assert.Error(t, err)

	_, err = parseCLI(t, "backup", "-a", "--min-size=0", src, filepath.Join(t.TempDir(), "dst"))
	assert.NoError(t, err)
}

func TestFilterFlagsOptions(t *testing.T) {
	f := FilterFlags{
		IncludeDocx:   true,
		MinSize:       2.5,
		ExcludeDir:    []string{"node_modules"},
		ThesisKeyword: []string{"Belegarbeit"},
		RejectKeyword: []string{"Skript"},
	}
	opts := f.options("/src")

	assert.Equal(t, "/src", opts.Source)
	assert.True(t, opts.IncludeDocx)
	assert.Equal(t, 2.5, opts.MinSizeMB)
	assert.Equal(t, []string{"node_modules"}, opts.ExcludedDirs)
	assert.Contains(t, opts.ThesisKeywords, "Belegarbeit")
	assert.Contains(t, opts.ThesisKeywords, "Masterarbeit")
	assert.Contains(t, opts.RejectKeywords, "Skript")
	assert.Len(t, thesis.DefaultThesisKeywords, len(opts.ThesisKeywords)-1)
}

func TestBackupRunPlain(t *testing.T) {
	out, errOut := captureOutput(t)

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "backup")
	t1 := time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)
	writeThesis(t, filepath.Join(src, "a", "BA_Mueller_v1.pdf"), 2<<20, t1)
	writeThesis(t, filepath.Join(src, "b", "BA-Mueller-v2.pdf"), 2<<20, t1.Add(time.Hour))
	writeThesis(t, filepath.Join(src, "b", "notes.pdf"), 2<<20, t1)

	cmd := &BackupCmd{
		Source:      src,
		Target:      dst,
		NoTUI:       true,
		FilterFlags: FilterFlags{MinSize: 1.0, ExcludeDir: thesis.DefaultExcludedDirs},
	}
	require.NoError(t, cmd.Run(&types.AppContext{Version: "1.2.3"}))

	entries, err := os.ReadDir(filepath.Join(dst, thesis.ThesisDirName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "BA-Mueller-v2.pdf", entries[0].Name())
	assert.NoFileExists(t, filepath.Join(dst, "notes.pdf"))

	assert.Contains(t, out.String(), "ThesisBackup 1.2.3")
	assert.Contains(t, out.String(), "Backup complete")
	assert.Contains(t, out.String(), "Replaced older versions: 1")
	assert.Contains(t, errOut.String(), "Replaced older copy")
}

func TestBackupRunSaveAll(t *testing.T) {
	captureOutput(t)

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "backup")
	writeThesis(t, filepath.Join(src, "notes.pdf"), 2<<20, time.Now())

	cmd := &BackupCmd{
		Source:           src,
		Target:           dst,
		NoTUI:            true,
		IncludeNonThesis: true,
		FilterFlags:      FilterFlags{MinSize: 1.0},
	}
	require.NoError(t, cmd.Run(nil))
	assert.FileExists(t, filepath.Join(dst, "notes.pdf"))
}

func TestBackupRunLockedTarget(t *testing.T) {
	captureOutput(t)

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "backup")
	lock, err := utils.LockTarget(dst)
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	cmd := &BackupCmd{Source: src, Target: dst, NoTUI: true, FilterFlags: FilterFlags{MinSize: 1.0}}
	err = cmd.Run(nil)
	assert.ErrorIs(t, err, utils.ErrTargetLocked)
}

func TestDuplicatesRunPlain(t *testing.T) {
	out, _ := captureOutput(t)

	src := t.TempDir()
	t1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	writeThesis(t, filepath.Join(src, "a", "Masterarbeit_v1.pdf"), 2<<20, t1)
	writeThesis(t, filepath.Join(src, "b", "Masterarbeit-v2.pdf"), 2<<20, t1.Add(time.Hour))

	cmd := &DuplicatesCmd{Source: src, NoTUI: true, FilterFlags: FilterFlags{MinSize: 1.0}}
	require.NoError(t, cmd.Run(nil))

	text := out.String()
	assert.Contains(t, text, "Found 1 group(s)")
	keep := strings.Index(text, "Masterarbeit-v2.pdf")
	older := strings.Index(text, "Masterarbeit_v1.pdf")
	require.NotEqual(t, -1, keep)
	require.NotEqual(t, -1, older)
	assert.Less(t, keep, older, "newest file is listed first")
}

func TestDuplicatesRunNoGroups(t *testing.T) {
	out, _ := captureOutput(t)

	cmd := &DuplicatesCmd{Source: t.TempDir(), NoTUI: true, FilterFlags: FilterFlags{MinSize: 1.0}}
	require.NoError(t, cmd.Run(nil))
	assert.Contains(t, out.String(), "No thesis files share a name")
}

func TestAppVersion(t *testing.T) {
	assert.Equal(t, types.DefaultVersion, appVersion(nil))
	assert.Equal(t, types.DefaultVersion, appVersion(&types.AppContext{}))
	assert.Equal(t, "1.0.0", appVersion(&types.AppContext{Version: "1.0.0"}))
}

func TestVersionRun(t *testing.T) {
	out, _ := captureOutput(t)

	cfg := filepath.Join(t.TempDir(), "thesisbackup.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("min-size: 2\n"), 0o644))
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cmd := &VersionCmd{}
	require.NoError(t, cmd.Run(&types.AppContext{Version: "1.4.0", ConfigPaths: []string{cfg, missing}}))

	assert.Contains(t, out.String(), "thesisbackup 1.4.0")
	assert.Contains(t, out.String(), cfg+" (loaded)")
	assert.Contains(t, out.String(), missing+" (not found)")
}
