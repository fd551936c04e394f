package thesis

import (
	"fmt"
	"regexp"
)

const bytesPerMB = 1024 * 1024

// Filter decides which files are thesis candidates
type Filter struct {
	includeDocx      bool
	includeNonThesis bool
	minSizeMB        float64
	thesis           *regexp.Regexp
	reject           *regexp.Regexp
}

// NewFilter compiles the keyword patterns from opts
func NewFilter(opts *Options) (*Filter, error) {
	if err := ValidateMinSize(opts.MinSizeMB); err != nil {
		return nil, err
	}

	thesis, err := CompileKeywords(opts.ThesisKeywords)
	if err != nil {
		return nil, fmt.Errorf("invalid thesis keywords: %w", err)
	}
	reject, err := CompileKeywords(opts.RejectKeywords)
	if err != nil {
		return nil, fmt.Errorf("invalid reject keywords: %w", err)
	}

	return &Filter{
		includeDocx:      opts.IncludeDocx,
		includeNonThesis: opts.IncludeNonThesis,
		minSizeMB:        opts.MinSizeMB,
		thesis:           thesis,
		reject:           reject,
	}, nil
}

// Classify looks only at the file name. It returns ReasonNone and the kind when the
// file should be considered further.
func (f *Filter) Classify(name string) (FileKind, SkipReason) {
	if !IsCandidateExtension(name, f.includeDocx) {
		return KindOther, ReasonExtension
	}

	stem := Stem(name)
	if f.reject != nil && f.reject.MatchString(stem) {
		return KindOther, ReasonRejected
	}

	if f.thesis != nil && f.thesis.MatchString(stem) {
		return KindThesis, ReasonNone
	}
	if f.includeNonThesis {
		return KindOther, ReasonNone
	}
	return KindOther, ReasonNotThesis
}

// CheckSize applies the minimum size threshold
func (f *Filter) CheckSize(size int64) SkipReason {
	if float64(size)/bytesPerMB < f.minSizeMB {
		return ReasonTooSmall
	}
	return ReasonNone
}
