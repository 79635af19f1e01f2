// Package textimport splits a plain text manuscript into chapters.
package textimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/readloom/readloom/pkg/chapters"
	"github.com/readloom/readloom/pkg/errcodes"
)

const (
	DefaultDelimiterWord = "Chapter"

	// NumberFallbackPosition numbers a chapter by its position in the text
	// when its delimiter line has no number.
	NumberFallbackPosition = "position"
	// NumberFallbackNone leaves such a chapter at 0, which fails validation
	// before anything is stored.
	NumberFallbackNone = "none"
)

var numberRE = regexp.MustCompile(`\d+`)

type Options struct {
	DelimiterWord               string
	IncludeDelimiterWordInTitle bool
	NumberFallback              string
}

// DefaultOptions splits on "Chapter <n>" lines and keeps the full line as the
// title.
func DefaultOptions() Options {
	return Options{
		DelimiterWord:               DefaultDelimiterWord,
		IncludeDelimiterWordInTitle: true,
		NumberFallback:              NumberFallbackPosition,
	}
}

// delimiterPatterns builds the pattern matching a whole delimiter line
// ("Chapter 12: The Storm") and the pattern matching only its leading
// "<word> <number>" part.
func delimiterPatterns(word string) (line, prefix *regexp.Regexp) {
	quoted := regexp.QuoteMeta(word)
	if r, _ := utf8.DecodeRuneInString(word); unicode.IsLetter(r) || unicode.IsDigit(r) {
		quoted = `\b` + quoted
	}
	line = regexp.MustCompile(`(?i)` + quoted + `\s+\d+[^\n]*`)
	prefix = regexp.MustCompile(`(?i)^` + quoted + `\s+\d+[\s:.\-]*`)
	return line, prefix
}

// Parse splits text into chapters without storing anything. Delimiter lines
// are paired with the non-blank fragments between them in order, up to the
// shorter of the two lists. Text without a single delimiter line is a parse
// error.
func Parse(text string, opts Options) ([]chapters.ChapterInput, error) {
	word := strings.TrimSpace(opts.DelimiterWord)
	if word == "" {
		word = DefaultDelimiterWord
	}
	if opts.NumberFallback == "" {
		opts.NumberFallback = NumberFallbackPosition
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lineRE, prefixRE := delimiterPatterns(word)

	titles := lineRE.FindAllString(text, -1)
	if len(titles) == 0 {
		return nil, errcodes.ParseError(fmt.Sprintf(
			"No chapter headings like %q were found. Adjust the delimiter word and try again.",
			word+" 1",
		))
	}

	bodies := []string{}
	for _, fragment := range lineRE.Split(text, -1) {
		if strings.TrimSpace(fragment) != "" {
			bodies = append(bodies, fragment)
		}
	}

	n := min(len(bodies), len(titles))
	parsed := make([]chapters.ChapterInput, 0, n)
	for i := 0; i < n; i++ {
		line := strings.TrimSpace(titles[i])
		parsed = append(parsed, chapters.ChapterInput{
			ChapterNumber: chapterNumber(line, i, opts.NumberFallback),
			Title:         chapterTitle(line, prefixRE, opts.IncludeDelimiterWordInTitle),
			Content:       strings.TrimSpace(bodies[i]),
		})
	}

	return parsed, nil
}

func chapterNumber(line string, index int, fallback string) int {
	if digits := numberRE.FindString(line); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return n
		}
	}
	if fallback == NumberFallbackPosition {
		return index + 1
	}
	return 0
}

func chapterTitle(line string, prefixRE *regexp.Regexp, includeWord bool) string {
	if includeWord {
		return line
	}
	rest := strings.TrimSpace(prefixRE.ReplaceAllString(line, ""))
	if rest == "" {
		return line
	}
	return rest
}
