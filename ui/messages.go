package ui

import "github.com/lepinkainen/thesisbackup/thesis"

// TUI message types sent from the backup worker

type DirectoryMsg struct {
	Path  string
	Stats thesis.Stats
}

type FileMsg struct {
	Event thesis.Event
	Stats thesis.Stats
}

type CopyStartedMsg struct {
	Src  string
	Dst  string
	Size int64
}

type CopyProgressMsg struct {
	Src     string
	Written int64
	Size    int64
}

// BackupFinishedMsg ends the program once the worker has returned
type BackupFinishedMsg struct {
	Result thesis.Result
	Err    error
}
