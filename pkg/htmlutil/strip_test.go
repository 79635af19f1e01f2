package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text no tags",
			input:    "Hello world",
			expected: "Hello world",
		},
		{
			name:     "multiple paragraphs",
			input:    "<p>First paragraph</p><p>Second paragraph</p>",
			expected: "First paragraph\nSecond paragraph",
		},
		{
			name:     "nested inline tags",
			input:    "<p><strong>Bold</strong> and <em>italic</em></p>",
			expected: "Bold and italic",
		},
		{
			name:     "br variants",
			input:    "Line one<br>Line two<br/>Line three<BR />Line four",
			expected: "Line one\nLine two\nLine three\nLine four",
		},
		{
			name:     "attributes are dropped",
			input:    `<div><p style="font-weight: 600">A <em>quiet</em> town.</p><p>Then the letters came.</p></div>`,
			expected: "A quiet town.\nThen the letters came.",
		},
		{
			name:     "entities are decoded",
			input:    "Tom &amp; Jerry &mdash; the classic&nbsp;cartoon",
			expected: "Tom & Jerry — the classic cartoon",
		},
		{
			name:     "numeric entities",
			input:    "It&#39;s &#x2019;here&#8217;",
			expected: "It's ’here’",
		},
		{
			name:     "multiple spaces collapsed",
			input:    "Too    many \t spaces",
			expected: "Too many spaces",
		},
		{
			name:     "script and style content removed",
			input:    "<style>p{color:red}</style><p>Visible</p><script>alert(1)</script>",
			expected: "Visible",
		},
		{
			name:     "list items on separate lines",
			input:    "<ul><li>One</li><li>Two</li></ul>",
			expected: "One\nTwo",
		},
		{
			name:     "comments removed",
			input:    "Before<!-- hidden -->After",
			expected: "BeforeAfter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}
