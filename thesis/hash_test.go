package thesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		stem string
		want string
	}{
		{"underscores and digits", "BA_Mueller_v1", "bamuellerv"},
		{"hyphens", "BA-Mueller-v2", "bamuellerv"},
		{"parentheses and spaces", "Masterarbeit (final) 2021", "masterarbeitfinal"},
		{"tabs", "Thesis\tDraft", "thesisdraft"},
		{"umlauts are kept", "Prüfung_03", "prüfung"},
		{"only separators", "(1)_-_ 2", ""},
		{"dots survive", "Diss.v3", "diss.v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.stem))
		})
	}
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, NameKey("BA_Mueller_v1"), NameKey("BA-Mueller-v2"))
	assert.Equal(t, NameKey("Thesis (2)"), NameKey("thesis"))
	assert.NotEqual(t, NameKey("Thesis_Mueller"), NameKey("Thesis_Meier"))

	// digest of the empty string
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", NameKey("_-_ (123)"))
	assert.Len(t, NameKey("anything"), 32)
}
