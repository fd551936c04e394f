package cmd

import (
	"github.com/lepinkainen/thesisbackup/thesis"
	"github.com/lepinkainen/thesisbackup/types"
)

// FilterFlags are shared by every command that selects thesis files
type FilterFlags struct {
	IncludeDocx   bool     `name:"include-docx" help:"Also consider .docx files"`
	MinSize       float64  `name:"min-size" help:"Minimum file size in MB (0-5, in 0.1 steps)" default:"1.0"`
	ExcludeDir    []string `name:"exclude-dir" help:"Directory names that are never searched" default:"Python,Pandas,Code_Docker,venv,Ansys"`
	ThesisKeyword []string `name:"thesis-keyword" help:"Additional keywords that mark a thesis file"`
	RejectKeyword []string `name:"reject-keyword" help:"Additional keywords that exclude a file; wrap in \\b...\\b for whole words"`
	Verbose       bool     `short:"v" help:"Log the reason for every skipped file"`
}

func (f *FilterFlags) validate() error {
	return thesis.ValidateMinSize(f.MinSize)
}

// options builds thesis options on top of the built-in keyword lists
func (f *FilterFlags) options(source string) *thesis.Options {
	opts := thesis.DefaultOptions()
	opts.Source = source
	opts.IncludeDocx = f.IncludeDocx
	opts.MinSizeMB = f.MinSize
	opts.ExcludedDirs = append([]string(nil), f.ExcludeDir...)
	opts.ThesisKeywords = append(opts.ThesisKeywords, f.ThesisKeyword...)
	opts.RejectKeywords = append(opts.RejectKeywords, f.RejectKeyword...)
	return opts
}

func appVersion(appCtx *types.AppContext) string {
	if appCtx == nil || appCtx.Version == "" {
		return types.DefaultVersion
	}
	return appCtx.Version
}
