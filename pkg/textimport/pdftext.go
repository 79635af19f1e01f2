package textimport

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/readloom/readloom/pkg/errcodes"
)

// ExtractPDFText returns the plain text of every page, one page per block.
// Pages that can't be decoded are skipped.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errcodes.ValidationError("The uploaded PDF could not be read.")
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", errcodes.ValidationError("The uploaded PDF has no extractable text.")
	}
	return strings.Join(pages, "\n"), nil
}
