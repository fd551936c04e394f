package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/thesisbackup/thesis"
)

const (
	keepMarker = "[keep]"
	// minPathWidth keeps paths readable on very narrow terminals
	minPathWidth = 20
)

// DuplicatesModel browses groups of thesis files that normalize to the same name.
// It is read-only: a backup run decides which file is kept.
type DuplicatesModel struct {
	// Data
	groups       []thesis.NameGroup
	currentGroup int
	currentFile  int

	// UI state
	width    int
	showHelp bool

	// Control state
	quitting bool
}

// NewDuplicatesModel creates a new duplicates TUI model
func NewDuplicatesModel(groups []thesis.NameGroup) DuplicatesModel {
	return DuplicatesModel{
		groups:   groups,
		showHelp: true,
	}
}

// Init implements tea.Model
func (m DuplicatesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m DuplicatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

func (m DuplicatesModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if len(m.groups) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.currentFile > 0 {
			m.currentFile--
		}

	case "down", "j":
		if m.currentFile < len(m.groups[m.currentGroup].Files)-1 {
			m.currentFile++
		}

	case "left", "p":
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}

	case "right", "n", "s":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}

	case "home", "g":
		m.currentGroup = 0
		m.currentFile = 0

	case "end", "G":
		m.currentGroup = len(m.groups) - 1
		m.currentFile = 0
	}

	return m, nil
}

// View implements tea.Model
func (m DuplicatesModel) View() string {
	if m.quitting {
		return ""
	}

	if len(m.groups) == 0 {
		style := SuccessStyle.MarginTop(2).MarginLeft(2)
		return style.Render("✅ No thesis files share a name\n\nPress 'q' to quit.")
	}

	var content strings.Builder

	header := fmt.Sprintf("ThesisBackup - Name Groups (Group %d of %d)", m.currentGroup+1, len(m.groups))
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Normalized name: %q (%d files)", group.Normalized, len(group.Files))))
	content.WriteString("\n\n")

	content.WriteString(m.renderFileList(group))
	content.WriteString("\n")

	selected := group.Files[m.currentFile]
	content.WriteString(DimStyle.Render(m.fitWidth(selected.Path, 0)))
	content.WriteString("\n\n")

	if m.showHelp {
		content.WriteString(renderDuplicatesHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m DuplicatesModel) renderFileList(group thesis.NameGroup) string {
	var content strings.Builder

	paths := make([]string, len(group.Files))
	for i, f := range group.Files {
		paths[i] = f.Path
	}
	optimizedPaths := optimizePaths(paths)

	for i, file := range group.Files {
		var line strings.Builder

		marker := "      "
		if i == 0 {
			marker = KeeperStyle.Render(keepMarker)
		}
		line.WriteString(marker)
		line.WriteString(" ")

		name := file.Name
		if i == m.currentFile {
			name = lipgloss.NewStyle().Reverse(true).Render(name)
		}
		line.WriteString(name)

		details := fmt.Sprintf("  %s  %s  (",
			file.ModTime.Format("2006-01-02 15:04"),
			FormatBytes(file.Size))
		used := len(keepMarker) + 1 + utf8.RuneCountInString(file.Name) + utf8.RuneCountInString(details) + 1
		line.WriteString(DimStyle.Render(details + m.fitWidth(optimizedPaths[i], used) + ")"))
		content.WriteString(line.String())
		content.WriteString("\n")
	}

	return content.String()
}

// fitWidth shortens path from the left so that it fits next to used columns.
// Nothing is cut before the terminal size is known.
func (m DuplicatesModel) fitWidth(path string, used int) string {
	if m.width <= 0 {
		return path
	}
	return truncateLeft(path, max(m.width-used, minPathWidth))
}

// optimizePaths finds the common path prefix and returns optimized display paths
// that show only the meaningful differences, keeping the topmost directory for context
func optimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	pathComponents := make([][]string, len(paths))
	minLength := -1
	for i, path := range paths {
		pathComponents[i] = strings.Split(filepath.Clean(path), string(filepath.Separator))
		if minLength < 0 || len(pathComponents[i]) < minLength {
			minLength = len(pathComponents[i])
		}
	}

	common := 0
	for ; common < minLength; common++ {
		first := pathComponents[0][common]
		match := true
		for _, components := range pathComponents[1:] {
			if components[common] != first {
				match = false
				break
			}
		}
		if !match {
			break
		}
	}

	result := make([]string, len(paths))
	for i, components := range pathComponents {
		// keep one level of context above the first differing directory
		start := common
		if start > 0 && len(components) > start {
			start--
		}
		if start >= len(components) {
			result[i] = paths[i]
			continue
		}
		result[i] = filepath.Join(components[start:]...)
		if start > 0 {
			result[i] = "..." + string(filepath.Separator) + result[i]
		}
	}

	return result
}

func renderDuplicatesHelp() string {
	help := []string{
		"Navigation:",
		"  ↑/↓ or j/k   Navigate files in current group",
		"  ←/→ or p/n   Previous/Next group",
		"  g/G          First/Last group",
		"  h/?          Toggle this help",
		"  q            Quit",
		"",
		"The [keep] file is the newest and is the one a backup retains.",
		"",
	}

	return strings.Join(help, "\n")
}

// FormatBytes renders a size with binary units
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
