package main

import (
	"github.com/alecthomas/kong"
	"github.com/lepinkainen/thesisbackup/cmd"
	"github.com/lepinkainen/thesisbackup/config"
	"github.com/lepinkainen/thesisbackup/types"
)

var Version = "dev"

type CLI struct {
	Config kong.ConfigFlag `help:"Load flag defaults from this YAML file"`

	Backup     cmd.BackupCmd     `cmd:"" help:"Copy thesis PDFs from SOURCE into TARGET/Thesis, keeping the newest version of each"`
	Duplicates cmd.DuplicatesCmd `cmd:"" help:"List thesis files that share a normalized name"`
	Version    cmd.VersionCmd    `cmd:"" help:"Show version information"`
}

func main() {
	var cli CLI
	paths := config.DefaultPaths()

	ctx := kong.Parse(&cli,
		kong.Name("thesisbackup"),
		kong.Description("Find thesis documents and back them up without duplicates."),
		kong.UsageOnError(),
		kong.Configuration(config.YAML, paths...),
		kong.Bind(&types.AppContext{Version: Version, ConfigPaths: paths}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
