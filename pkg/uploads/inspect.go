package uploads

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/errcodes"
	_ "golang.org/x/image/webp"
)

const (
	MimeTypePDF  = "application/pdf"
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeWebP = "image/webp"

	// MaxCoverDimension bounds both sides of a cover image, in pixels.
	MaxCoverDimension = 8000
)

var coverMimeTypes = map[string]struct{}{
	MimeTypeJPEG: {},
	MimeTypePNG:  {},
	MimeTypeWebP: {},
}

func init() {
	// pdfcpu otherwise writes a config directory into the user's home.
	api.DisableConfigDir()
}

// InspectPDF checks that data is a readable PDF and returns its page count.
func InspectPDF(data []byte) (int, error) {
	if !mimetype.Detect(data).Is(MimeTypePDF) {
		return 0, errcodes.ValidationError("The uploaded file is not a PDF.")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, errcodes.ValidationError("The uploaded PDF could not be read: " + errors.Cause(err).Error())
	}
	if pages < 1 {
		return 0, errcodes.ValidationError("The uploaded PDF has no pages.")
	}

	return pages, nil
}

type CoverInfo struct {
	MimeType string
	Width    int
	Height   int
}

// InspectCover checks that data is a jpeg, png or webp image with sensible
// dimensions.
func InspectCover(data []byte) (*CoverInfo, error) {
	mtype := mimetype.Detect(data).String()
	if _, ok := coverMimeTypes[mtype]; !ok {
		return nil, errcodes.ValidationError("Covers must be JPEG, PNG or WebP images.")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errcodes.ValidationError("The uploaded cover could not be decoded.")
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > MaxCoverDimension || cfg.Height > MaxCoverDimension {
		return nil, errcodes.ValidationError("Cover dimensions must be between 1 and 8000 pixels.")
	}

	return &CoverInfo{MimeType: mtype, Width: cfg.Width, Height: cfg.Height}, nil
}
