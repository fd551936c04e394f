package thesis

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultThesisKeywords are matched case-insensitively anywhere in the filename stem.
// The two-letter abbreviations carry their separator so that "BA_Mueller" matches but "Banane" does not.
var DefaultThesisKeywords = []string{
	"Thesis", "BA ", "MA ", "DA ", "BA_", "MA_", "DA_", "BA-", "MA-", "DA-",
	"Dissertation", "Doktor", "Diplom", "Master", "Bachelor",
	"Bachelorarbeit", "Masterarbeit", "Diplomarbeit",
	"Doktorarbeit", "Habilitationsschrift",
	"Projektarbeit", "Hausarbeit", "Seminararbeit",
	"Facharbeit", "Abschlussarbeit", "Studienarbeit",
	"Examensarbeit", "Staatsexamensarbeit", "Magisterarbeit",
	"Zulassungsarbeit", "Semesterarbeit", "Forschungsarbeit",
	"Praktikumsbericht", "Promotion", "Promotionsarbeit",
	"Lizentiatsarbeit", "Technikerarbeit",
}

// DefaultRejectKeywords mark technical documents (standards, lab reports, books).
// Entries wrapped in \b are matched as whole words only.
var DefaultRejectKeywords = []string{
	"buch", "Messung", "Versuch", "Norm", "VDI", `\bDIN\b`, `\bISO\b`,
}

// DefaultExcludedDirs are directory names that are never descended into
var DefaultExcludedDirs = []string{"Python", "Pandas", "Code_Docker", "venv", "Ansys"}

// wordBoundary matches the \b...\b wrapper used in keyword lists
var wordBoundary = regexp.MustCompile(`^\\b(.+)\\b$`)

// CompileKeywords builds a case-insensitive alternation from plain keywords.
// Keywords are quoted literally unless wrapped in \b...\b, in which case the inner
// text is quoted and the word boundaries are kept. An empty list yields a nil pattern.
func CompileKeywords(keywords []string) (*regexp.Regexp, error) {
	parts := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		var part string
		if m := wordBoundary.FindStringSubmatch(kw); m != nil {
			part = `\b` + regexp.QuoteMeta(m[1]) + `\b`
		} else {
			part = regexp.QuoteMeta(kw)
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)(` + strings.Join(parts, "|") + `)`)
}

// IsCandidateExtension reports whether path has an extension the pipeline copies
func IsCandidateExtension(path string, includeDocx bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return true
	case ".docx":
		return includeDocx
	default:
		return false
	}
}

// Stem returns the file name without directory and extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
