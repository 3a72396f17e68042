package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Disponibile", "disponibile"},
		{"collapses whitespace", "  In \t Stock \n now ", "in stock now"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"already normalized", "esaurito", "esaurito"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Currently   UNAVAILABLE  ",
		"In\tStock",
		"",
		"già normalizzato",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
