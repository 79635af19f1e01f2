package textimport

import "mime/multipart"

// ImportChaptersPayload accepts the text inline as JSON, or as a "file" in a
// multipart form. Form decoding sees URL query values too, so Preview mirrors
// the ?preview flag.
type ImportChaptersPayload struct {
	Preview bool `json:"-" form:"preview"`

	Text                        string `json:"text" form:"text"`
	DelimiterWord               string `json:"delimiter_word" form:"delimiter_word" mod:"trim" default:"Chapter" validate:"max=50"`
	IncludeDelimiterWordInTitle *bool  `json:"include_delimiter_word_in_title" form:"include_delimiter_word_in_title"`
	NumberFallback              string `json:"number_fallback" form:"number_fallback" default:"position" validate:"oneof=position none"`

	FormFiles map[string]*multipart.FileHeader `json:"-" form:"-"`
}

func (p ImportChaptersPayload) options() Options {
	opts := DefaultOptions()
	opts.DelimiterWord = p.DelimiterWord
	opts.NumberFallback = p.NumberFallback
	if p.IncludeDelimiterWordInTitle != nil {
		opts.IncludeDelimiterWordInTitle = *p.IncludeDelimiterWordInTitle
	}
	return opts
}
