package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/thesisbackup/thesis"
)

// maxLogEntries caps the processed files list
const maxLogEntries = 500

// FileLogEntry is one line in the processed files list
type FileLogEntry struct {
	Name    string
	Dest    string
	Outcome thesis.Outcome
	Reason  thesis.SkipReason
	Error   string
}

func (f FileLogEntry) FilterValue() string { return f.Name }
func (f FileLogEntry) Title() string       { return f.Name }
func (f FileLogEntry) Description() string {
	switch f.Outcome {
	case thesis.OutcomeCopied:
		return fmt.Sprintf("✓ → %s", f.Dest)
	case thesis.OutcomeReplaced:
		return fmt.Sprintf("🔄 newer version → %s", f.Dest)
	case thesis.OutcomeFailed:
		if f.Error != "" {
			return fmt.Sprintf("❌ %s: %s", f.Reason, f.Error)
		}
		return fmt.Sprintf("❌ %s", f.Reason)
	default:
		return fmt.Sprintf("– %s", f.Reason)
	}
}

// copyState tracks the copy in flight
type copyState struct {
	src     string
	dst     string
	size    int64
	written int64
}

// BackupModel is the TUI for a backup run. The worker runs outside the program and
// reports through messages; quitting only requests cancellation and the program
// exits when BackupFinishedMsg arrives.
type BackupModel struct {
	// Application state
	source     string
	target     string
	stats      thesis.Stats
	currentDir string
	copying    *copyState
	entries    []FileLogEntry

	result *thesis.Result
	err    error

	// UI components
	copyProgress progress.Model
	fileList     list.Model

	// Layout
	width  int
	height int

	// Control state
	cancel     context.CancelFunc
	cancelling bool
	done       bool

	// Version for display
	Version string
}

// NewBackupModel creates the model. cancel is called when the user quits.
func NewBackupModel(source, target, version string, cancel context.CancelFunc) BackupModel {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Processed Files"
	fileList.SetShowHelp(false)
	fileList.SetFilteringEnabled(false)

	return BackupModel{
		source:       source,
		target:       target,
		copyProgress: progress.New(progress.WithDefaultGradient()),
		fileList:     fileList,
		cancel:       cancel,
		Version:      version,
	}
}

// Init implements tea.Model
func (m BackupModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.done {
				return m, tea.Quit
			}
			if !m.cancelling {
				m.cancelling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.copyProgress.Width = max(msg.Width-30, 10)
		m.fileList.SetSize(msg.Width-4, max(msg.Height-14, 4))

	case DirectoryMsg:
		m.currentDir = msg.Path
		m.stats = msg.Stats

	case CopyStartedMsg:
		m.copying = &copyState{src: msg.Src, dst: msg.Dst, size: msg.Size}

	case CopyProgressMsg:
		if m.copying != nil && m.copying.src == msg.Src {
			m.copying.written = msg.Written
		}

	case FileMsg:
		m.stats = msg.Stats
		if m.copying != nil && m.copying.src == msg.Event.Path {
			m.copying = nil
		}
		if entry, ok := logEntry(msg.Event); ok {
			m.addEntry(entry)
		}

	case BackupFinishedMsg:
		m.done = true
		m.copying = nil
		m.err = msg.Err
		res := msg.Result
		m.result = &res
		m.stats = res.Stats
		return m, tea.Quit
	}

	return m, nil
}

// logEntry decides which events are worth a line in the list. Plain filter rejects
// are left to the log.
func logEntry(ev thesis.Event) (FileLogEntry, bool) {
	entry := FileLogEntry{
		Name:    filepath.Base(ev.Path),
		Dest:    ev.Dest,
		Outcome: ev.Outcome,
		Reason:  ev.Reason,
	}
	if ev.Err != nil {
		entry.Error = ev.Err.Error()
	}

	switch ev.Outcome {
	case thesis.OutcomeCopied, thesis.OutcomeReplaced, thesis.OutcomeFailed:
		return entry, true
	case thesis.OutcomeSkipped:
		switch ev.Reason {
		case thesis.ReasonOlderVersion, thesis.ReasonPathTooLong, thesis.ReasonMissing:
			return entry, true
		}
	}
	return FileLogEntry{}, false
}

func (m *BackupModel) addEntry(entry FileLogEntry) {
	m.entries = append(m.entries, entry)
	if len(m.entries) > maxLogEntries {
		m.entries = m.entries[len(m.entries)-maxLogEntries:]
	}

	// newest first
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[len(m.entries)-1-i] = e
	}
	m.fileList.SetItems(items)
}

// Result returns the run result once the worker has finished
func (m BackupModel) Result() (*thesis.Result, error) {
	return m.result, m.err
}

// View implements tea.Model
func (m BackupModel) View() string {
	header := HeaderStyle.Render(fmt.Sprintf("ThesisBackup %s", m.Version))

	paths := InfoStyle.Render(fmt.Sprintf("%s → %s", m.source, m.target))

	counters := fmt.Sprintf("Directories: %d  Checked: %d  %s  %s  Skipped: %d  %s",
		m.stats.Directories,
		m.stats.Checked,
		SuccessStyle.Render(fmt.Sprintf("Copied: %d", m.stats.Copied)),
		ReplacedStyle.Render(fmt.Sprintf("Replaced: %d", m.stats.Replaced)),
		m.stats.Skipped,
		ErrorStyle.Render(fmt.Sprintf("Failed: %d", m.stats.Failed)),
	)

	current := DimStyle.Render("Scanning: " + truncateLeft(m.currentDir, max(m.width-12, 40)))

	copyView := DimStyle.Render("Idle")
	if m.copying != nil {
		percent := 0.0
		if m.copying.size > 0 {
			percent = float64(m.copying.written) / float64(m.copying.size)
		}
		copyView = fmt.Sprintf("%s %s", m.copyProgress.ViewAs(percent), filepath.Base(m.copying.src))
	}

	var status string
	switch {
	case m.done:
		status = SuccessStyle.Render("Backup finished")
	case m.cancelling:
		status = WarningStyle.Render("Cancelling, waiting for the current file...")
	default:
		status = "Controls: [q] Cancel"
	}

	sections := []string{
		header,
		paths,
		counters,
		current,
		copyView,
		m.fileList.View(),
		status,
	}

	return strings.Join(sections, "\n\n")
}

// truncateLeft keeps the end of s, which is the informative part of a path
func truncateLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 {
		return s
	}
	return "..." + string(r[len(r)-width+3:])
}
