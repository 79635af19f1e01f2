package sortname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"The at beginning", "The Hobbit", "Hobbit, The"},
		{"A at beginning", "A Tale of Two Cities", "Tale of Two Cities, A"},
		{"An at beginning", "An American Tragedy", "American Tragedy, An"},
		{"lowercase article keeps case", "the hobbit", "hobbit, the"},
		{"uppercase article keeps case", "THE HOBBIT", "HOBBIT, THE"},
		{"no article", "Lord of the Rings", "Lord of the Rings"},
		{"article in middle only", "Return of the King", "Return of the King"},
		{"article as prefix of word", "Theory of Everything", "Theory of Everything"},
		{"article alone", "The", "The"},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"collapses whitespace", "  The   Name of  the Wind ", "Name of the Wind, The"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ForTitle(tt.input))
		})
	}
}
