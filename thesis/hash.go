package thesis

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// NormalizeName strips digits, underscores, hyphens, parentheses and whitespace from a
// filename stem and folds it to lower case. Two names that normalize to the same string
// are treated as versions of the same document.
func NormalizeName(stem string) string {
	var b strings.Builder
	b.Grow(len(stem))
	for _, r := range stem {
		switch {
		case unicode.IsDigit(r), unicode.IsSpace(r):
			continue
		case r == '_', r == '-', r == '(', r == ')':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// NameKey returns the dedup key for a filename stem: the MD5 hex digest of its
// normalized form. It hashes the name only, never the file contents.
func NameKey(stem string) string {
	sum := md5.Sum([]byte(NormalizeName(stem)))
	return hex.EncodeToString(sum[:])
}
