// Package sortname builds the sort keys used to order catalog listings.
package sortname

import (
	"strings"
)

// TitleArticles are moved from the front of a title to the end
// ("The Hobbit" -> "Hobbit, The").
var TitleArticles = []string{
	"The",
	"A",
	"An",
}

// ForTitle returns the sort title for a book title. Inner whitespace is
// collapsed and a leading article is moved to the end, keeping its case.
func ForTitle(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return words[0]
	}

	for _, article := range TitleArticles {
		if strings.EqualFold(words[0], article) {
			return strings.Join(words[1:], " ") + ", " + words[0]
		}
	}

	return strings.Join(words, " ")
}
