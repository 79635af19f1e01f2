package textimport

import (
	"net/http"
	"testing"

	"github.com/readloom/readloom/pkg/chapters"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		opts     Options
		expected []chapters.ChapterInput
	}{
		{
			name: "headings with titles",
			text: "Chapter 1 Intro\nHello world.\nChapter 2 Rising Action\nMore text.",
			opts: DefaultOptions(),
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Chapter 1 Intro", Content: "Hello world."},
				{ChapterNumber: 2, Title: "Chapter 2 Rising Action", Content: "More text."},
			},
		},
		{
			name: "delimiter word dropped from titles",
			text: "Chapter 1: Intro\nHello world.\nCHAPTER 2 - Rising Action\nMore text.\nchapter 3\nThe end.",
			opts: Options{DelimiterWord: "Chapter", IncludeDelimiterWordInTitle: false},
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Intro", Content: "Hello world."},
				{ChapterNumber: 2, Title: "Rising Action", Content: "More text."},
				{ChapterNumber: 3, Title: "chapter 3", Content: "The end."},
			},
		},
		{
			name: "custom delimiter word and multi-paragraph bodies",
			text: "Part 10 North\n\nFirst paragraph.\n\nSecond paragraph.\n\nPart 11 South\n  Last words.  \n",
			opts: Options{DelimiterWord: "Part", IncludeDelimiterWordInTitle: true},
			expected: []chapters.ChapterInput{
				{ChapterNumber: 10, Title: "Part 10 North", Content: "First paragraph.\n\nSecond paragraph."},
				{ChapterNumber: 11, Title: "Part 11 South", Content: "Last words."},
			},
		},
		{
			name: "windows line endings",
			text: "Chapter 1 A\r\nBody one.\r\nChapter 2 B\r\nBody two.\r\n",
			opts: DefaultOptions(),
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Chapter 1 A", Content: "Body one."},
				{ChapterNumber: 2, Title: "Chapter 2 B", Content: "Body two."},
			},
		},
		{
			name: "pairs up to the shorter list",
			text: "Chapter 1 Only heading with body\nBody.\nChapter 2 Trailing heading",
			opts: DefaultOptions(),
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Chapter 1 Only heading with body", Content: "Body."},
			},
		},
		{
			name: "word must start at a word boundary",
			text: "Chapter 1 Real\nA subchapter 2 mention stays in the body.\n",
			opts: DefaultOptions(),
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Chapter 1 Real", Content: "A subchapter 2 mention stays in the body."},
			},
		},
		{
			name: "delimiter word with regexp metacharacters",
			text: "Ch. 1 Start\nText.\nCh. 2 Next\nMore.",
			opts: Options{DelimiterWord: "Ch.", IncludeDelimiterWordInTitle: false},
			expected: []chapters.ChapterInput{
				{ChapterNumber: 1, Title: "Start", Content: "Text."},
				{ChapterNumber: 2, Title: "Next", Content: "More."},
			},
		},
		{
			name: "blank delimiter word falls back to Chapter",
			text: "Chapter 5 Late start\nBody.",
			opts: Options{DelimiterWord: "  ", IncludeDelimiterWordInTitle: true},
			expected: []chapters.ChapterInput{
				{ChapterNumber: 5, Title: "Chapter 5 Late start", Content: "Body."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.text, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_NoDelimiter(t *testing.T) {
	t.Parallel()

	got, err := Parse("Once upon a time there were no headings at all.", DefaultOptions())
	assert.Empty(t, got)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, errResp.HTTPCode)
	assert.Equal(t, "parse_error", errResp.Code)
	assert.Contains(t, errResp.Message, "Chapter 1")
}

func TestChapterNumber_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, chapterNumber("Chapter 12 Storm", 0, NumberFallbackPosition))
	assert.Equal(t, 7, chapterNumber("Chapter 007", 3, NumberFallbackNone))
	assert.Equal(t, 4, chapterNumber("Prologue", 3, NumberFallbackPosition))
	assert.Equal(t, 0, chapterNumber("Prologue", 3, NumberFallbackNone))
	assert.Equal(t, 2, chapterNumber("Chapter 99999999999999999999999", 1, NumberFallbackPosition))
}
