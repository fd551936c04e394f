package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/thesisbackup/thesis"
	"github.com/lepinkainen/thesisbackup/types"
	"github.com/lepinkainen/thesisbackup/ui"
	"github.com/lepinkainen/thesisbackup/utils"
	"github.com/rs/zerolog"
)

type DuplicatesCmd struct {
	Source      string `arg:"" name:"source" help:"Directory to scan for thesis files sharing a name" type:"existingdir" default:"."`
	FilterFlags `embed:""`
	NoTUI       bool `name:"no-tui" help:"Disable interactive TUI and just list the groups"`
}

func (cmd *DuplicatesCmd) Validate() error {
	return cmd.validate()
}

func (cmd *DuplicatesCmd) Run(appCtx *types.AppContext) error {
	fmt.Fprintln(stdout, ui.HeaderStyle.Render(fmt.Sprintf("ThesisBackup %s", appVersion(appCtx))))
	fmt.Fprintf(stdout, "Scanning %s for thesis files that share a name...\n", cmd.Source)

	log, closeLog, err := utils.NewLogger(utils.LogOptions{Console: stderr, NoColor: !isTerminal(os.Stderr), Verbose: cmd.Verbose})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	if !cmd.Verbose {
		// only problems are worth printing while scanning
		log = log.Level(zerolog.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	groups, err := thesis.FindNameGroups(ctx, cmd.options(cmd.Source), log)
	if err != nil {
		return fmt.Errorf("failed to find name groups: %w", err)
	}

	if len(groups) == 0 {
		fmt.Fprintln(stdout, ui.SuccessStyle.Render("✅ No thesis files share a name"))
		return nil
	}

	if cmd.NoTUI || !isTerminal(os.Stdout) {
		printGroups(groups)
		return nil
	}

	model := ui.NewDuplicatesModel(groups)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func printGroups(groups []thesis.NameGroup) {
	fmt.Fprintf(stdout, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d group(s) of thesis files sharing a name:", len(groups))))
	for _, g := range groups {
		fmt.Fprintf(stdout, "\n🔸 %q (%d files):\n", g.Normalized, len(g.Files))
		for i, f := range g.Files {
			marker := "      "
			if i == 0 {
				marker = ui.KeeperStyle.Render("[keep]")
			}
			fmt.Fprintf(stdout, "  %s %s  %s  %s\n", marker, f.ModTime.Format("2006-01-02 15:04"), ui.FormatBytes(f.Size), f.Path)
		}
	}
}
