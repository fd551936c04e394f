package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/thesisbackup/thesis"
	"github.com/lepinkainen/thesisbackup/types"
	"github.com/lepinkainen/thesisbackup/ui"
	"github.com/lepinkainen/thesisbackup/utils"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Swappable in tests.
var (
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	isTerminal           = func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
)

type BackupCmd struct {
	Source string `arg:"" name:"source" help:"Directory to search for thesis files" type:"existingdir"`
	Target string `arg:"" name:"target" help:"Backup directory, created if missing" type:"path"`

	IncludeNonThesis bool `name:"include-non-thesis" short:"a" help:"Also copy other PDFs into the target root, without deduplication"`
	FilterFlags      `embed:""`

	NoTUI   bool   `name:"no-tui" help:"Print log lines instead of the interactive view"`
	LogFile string `name:"log-file" help:"Append JSON log lines to this file" type:"path"`
}

func (cmd *BackupCmd) Validate() error {
	if err := cmd.validate(); err != nil {
		return err
	}
	src, err := filepath.Abs(cmd.Source)
	if err != nil {
		return err
	}
	dst, err := filepath.Abs(cmd.Target)
	if err != nil {
		return err
	}
	if src == dst {
		return errors.New("source and target must be different directories")
	}
	return nil
}

func (cmd *BackupCmd) Run(appCtx *types.AppContext) error {
	version := appVersion(appCtx)

	opts := cmd.options(cmd.Source)
	opts.Target = cmd.Target
	opts.IncludeNonThesis = cmd.IncludeNonThesis

	lock, err := utils.LockTarget(cmd.Target)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res thesis.Result
	if !cmd.NoTUI && isTerminal(os.Stdout) && isTerminal(os.Stdin) {
		res, err = cmd.runTUI(ctx, opts, version)
	} else {
		res, err = cmd.runPlain(ctx, opts, version)
	}
	if err != nil {
		return err
	}

	printSummary(stdout, res)
	return nil
}

// runPlain logs to stderr and draws byte progress bars when stderr is a terminal
func (cmd *BackupCmd) runPlain(ctx context.Context, opts *thesis.Options, version string) (thesis.Result, error) {
	bars := false
	if f, ok := stderr.(*os.File); ok {
		bars = isTerminal(f)
	}

	log, closeLog, err := utils.NewLogger(utils.LogOptions{
		Console: stderr,
		NoColor: !bars,
		File:    cmd.LogFile,
		Verbose: cmd.Verbose,
	})
	if err != nil {
		return thesis.Result{}, err
	}
	defer func() { _ = closeLog() }()

	fmt.Fprintln(stdout, ui.HeaderStyle.Render(fmt.Sprintf("ThesisBackup %s", version)))
	warnNetworkSource(log, opts.Source, false)

	runner, err := thesis.NewRunner(opts, log, ui.NewConsoleObserver(stderr, bars))
	if err != nil {
		return thesis.Result{}, err
	}
	return runner.Run(ctx)
}

type workerResult struct {
	res thesis.Result
	err error
}

// runTUI runs the worker in a goroutine while the bubbletea program renders progress.
// Quitting the program cancels the worker; the program exits once the worker is done.
func (cmd *BackupCmd) runTUI(parent context.Context, opts *thesis.Options, version string) (thesis.Result, error) {
	// console output would garble the view, so only the log file is written
	log, closeLog, err := utils.NewLogger(utils.LogOptions{File: cmd.LogFile, Verbose: cmd.Verbose})
	if err != nil {
		return thesis.Result{}, err
	}
	defer func() { _ = closeLog() }()

	warnNetworkSource(log, opts.Source, true)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	model := ui.NewBackupModel(opts.Source, opts.Target, version, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	runner, err := thesis.NewRunner(opts, log, ui.NewProgramObserver(p))
	if err != nil {
		return thesis.Result{}, err
	}

	done := make(chan workerResult, 1)
	go func() {
		res, err := runner.Run(ctx)
		done <- workerResult{res: res, err: err}
		p.Send(ui.BackupFinishedMsg{Result: res, Err: err})
	}()

	// a signal ends the program too, after the worker has seen the cancellation
	go func() {
		<-parent.Done()
		cancel()
	}()

	_, progErr := p.Run()
	cancel()
	wr := <-done

	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return wr.res, fmt.Errorf("terminal UI failed: %w", progErr)
	}
	return wr.res, wr.err
}

func warnNetworkSource(log zerolog.Logger, source string, tui bool) {
	reason, ok := utils.NetworkSourceHint(source)
	if !ok {
		return
	}
	log.Warn().Str("source", source).Str("hint", reason).Msg("Source looks like a network share, copying may be slow")
	if tui {
		fmt.Fprintln(stdout, ui.WarningStyle.Render(fmt.Sprintf("⚠️  %s looks like a network share (%s), copying may be slow", source, reason)))
	}
}

func printSummary(w io.Writer, res thesis.Result) {
	fmt.Fprintln(w)
	if res.Cancelled {
		fmt.Fprintln(w, ui.WarningStyle.Render("⚠️  Backup cancelled, files copied so far are kept"))
	} else {
		fmt.Fprintln(w, ui.SuccessStyle.Render("✅ Backup complete"))
	}

	s := res.Stats
	fmt.Fprintf(w, "  Directories scanned:     %d\n", s.Directories)
	fmt.Fprintf(w, "  Files checked:           %d\n", s.Checked)
	fmt.Fprintf(w, "  Copied:                  %d (%s)\n", s.Copied, ui.FormatBytes(s.Bytes))
	fmt.Fprintf(w, "  Replaced older versions: %d\n", s.Replaced)
	fmt.Fprintf(w, "  Skipped:                 %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintln(w, ui.ErrorStyle.Render(fmt.Sprintf("  Failed:                  %d", s.Failed)))
	} else {
		fmt.Fprintf(w, "  Failed:                  %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  Thesis folder:           %s\n", res.ThesisDir)
	fmt.Fprintf(w, "  Took:                    %s\n", res.Duration().Round(10*time.Millisecond))
}
