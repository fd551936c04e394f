package thesis

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// DefaultMaxPathLength is the Windows MAX_PATH limit, applied on every platform so that
	// a backup stays usable when it is moved to a Windows machine
	DefaultMaxPathLength = 260
	// DefaultMinSizeMB is the smallest file size copied by default
	DefaultMinSizeMB = 1.0
	// MaxMinSizeMB is the upper bound for the minimum size setting
	MaxMinSizeMB = 5.0
	// ThesisDirName is the subfolder of the target that receives deduplicated thesis files
	ThesisDirName = "Thesis"
)

// ErrPathTooLong is returned when a path exceeds the configured length limit
var ErrPathTooLong = errors.New("path too long")

// Options configures a backup run
type Options struct {
	Source string
	Target string

	IncludeNonThesis bool    // save-all mode
	IncludeDocx      bool    // also accept .docx
	MinSizeMB        float64 // 0-5 in 0.1 steps

	ExcludedDirs   []string
	ThesisKeywords []string
	RejectKeywords []string

	MaxPathLength int
}

// DefaultOptions returns the settings the tool ships with
func DefaultOptions() *Options {
	return &Options{
		MinSizeMB:      DefaultMinSizeMB,
		ExcludedDirs:   append([]string(nil), DefaultExcludedDirs...),
		ThesisKeywords: append([]string(nil), DefaultThesisKeywords...),
		RejectKeywords: append([]string(nil), DefaultRejectKeywords...),
		MaxPathLength:  DefaultMaxPathLength,
	}
}

// ValidateMinSize checks the minimum size lies in [0, 5] on a 0.1 grid
func ValidateMinSize(mb float64) error {
	if math.IsNaN(mb) || mb < 0 || mb > MaxMinSizeMB {
		return fmt.Errorf("minimum size must be between 0 and %.0f MB, got %g", MaxMinSizeMB, mb)
	}
	if tenths := mb * 10; math.Abs(tenths-math.Round(tenths)) > 1e-9 {
		return fmt.Errorf("minimum size must be a multiple of 0.1 MB, got %g", mb)
	}
	return nil
}

func (o *Options) maxPath() int {
	if o.MaxPathLength <= 0 {
		return DefaultMaxPathLength
	}
	return o.MaxPathLength
}

// PathTooLong reports whether p exceeds limit characters
func PathTooLong(p string, limit int) bool {
	return utf8.RuneCountInString(p) > limit
}
