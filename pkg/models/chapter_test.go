package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"empty", "", 0},
		{"only whitespace", " \n\t ", 0},
		{"single word", "Hello", 1},
		{"runs of whitespace", "Hello   world.\n\nMore\ttext.", 4},
		{"leading and trailing whitespace", "  one two  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CountWords(tt.content))
		})
	}
}

func TestProgressStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ProgressStatusInProgress, ProgressStatus(0))
	assert.Equal(t, ProgressStatusInProgress, ProgressStatus(99.5))
	assert.Equal(t, ProgressStatusCompleted, ProgressStatus(100))
}
