package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"d", "D"},
		{"DUNN", "Dunn"},
		{"dUNN", "Dunn"},
		{"smith-jones", "Smith-jones"},
		{"élan", "Élan"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestUpperUsesFullCaseMapping(t *testing.T) {
	assert.Equal(t, "STRASSE", Upper("straße"))
	assert.Equal(t, "TEAGUE CE JR", Upper("teague ce jr"))
}

func TestRuneLen(t *testing.T) {
	assert.Equal(t, 4, RuneLen("Jörg"))
	assert.Equal(t, 0, RuneLen(""))
}
