package cmd

import (
	"fmt"
	"os"

	"github.com/lepinkainen/thesisbackup/types"
)

type VersionCmd struct{}

func (cmd *VersionCmd) Run(appCtx *types.AppContext) error {
	fmt.Fprintf(stdout, "thesisbackup %s\n", appVersion(appCtx))
	if appCtx == nil || len(appCtx.ConfigPaths) == 0 {
		return nil
	}

	fmt.Fprintln(stdout, "Configuration files:")
	for _, p := range appCtx.ConfigPaths {
		state := "not found"
		if _, err := os.Stat(p); err == nil {
			state = "loaded"
		}
		fmt.Fprintf(stdout, "  %s (%s)\n", p, state)
	}
	return nil
}
