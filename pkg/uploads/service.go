package uploads

import (
	"bytes"
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/books"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

var coverExtensions = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeWebP: ".webp",
}

type Service struct {
	bookService *books.Service
	store       Store
}

func NewService(bookService *books.Service, store Store) *Service {
	return &Service{bookService, store}
}

// AttachPDF validates data as a PDF, stores it under a fresh key and records
// it on the book. A previously attached PDF is released afterwards.
func (svc *Service) AttachPDF(ctx context.Context, bookID int, filename string, data []byte) (*models.Book, error) {
	book, err := svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pages, err := InspectPDF(data)
	if err != nil {
		return nil, err
	}

	key := "pdfs/" + uuid.NewString() + ".pdf"
	if err := svc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), MimeTypePDF); err != nil {
		return nil, errors.WithStack(err)
	}

	previous := book.PDFKey
	name := filepath.Base(filename)
	book.PDFKey = &key
	book.PDFOriginalName = &name
	book.PDFPageCount = &pages

	err = svc.bookService.UpdateBook(ctx, book, books.UpdateBookOptions{
		Columns: []string{"pdf_key", "pdf_original_name", "pdf_page_count"},
	})
	if err != nil {
		svc.release(ctx, bookID, &key)
		return nil, errors.WithStack(err)
	}
	svc.release(ctx, bookID, previous)

	return svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
}

// AttachCover validates data as a cover image and records it on the book. A
// previous cover is released afterwards.
func (svc *Service) AttachCover(ctx context.Context, bookID int, data []byte) (*models.Book, error) {
	book, err := svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info, err := InspectCover(data)
	if err != nil {
		return nil, err
	}

	key := "covers/" + uuid.NewString() + coverExtensions[info.MimeType]
	if err := svc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), info.MimeType); err != nil {
		return nil, errors.WithStack(err)
	}

	previous := book.CoverImageKey
	book.CoverImageKey = &key
	book.CoverMimeType = &info.MimeType

	err = svc.bookService.UpdateBook(ctx, book, books.UpdateBookOptions{
		Columns: []string{"cover_image_key", "cover_mime_type"},
	})
	if err != nil {
		svc.release(ctx, bookID, &key)
		return nil, errors.WithStack(err)
	}
	svc.release(ctx, bookID, previous)

	return svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
}

// OpenPDF returns a reader over the book's PDF. The caller closes it.
func (svc *Service) OpenPDF(ctx context.Context, bookID int) (io.ReadCloser, *models.Book, error) {
	book, err := svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !book.HasPDF {
		return nil, nil, errcodes.NotFound("PDF")
	}

	r, err := svc.open(ctx, *book.PDFKey, "PDF")
	if err != nil {
		return nil, nil, err
	}
	return r, book, nil
}

// OpenCover returns a reader over the book's cover image. The caller closes
// it.
func (svc *Service) OpenCover(ctx context.Context, bookID int) (io.ReadCloser, *models.Book, error) {
	book, err := svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &bookID})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !book.HasCover {
		return nil, nil, errcodes.NotFound("Cover")
	}

	r, err := svc.open(ctx, *book.CoverImageKey, "Cover")
	if err != nil {
		return nil, nil, err
	}
	return r, book, nil
}

func (svc *Service) open(ctx context.Context, key, resource string) (io.ReadCloser, error) {
	r, err := svc.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			logger.FromContext(ctx).Warn("stored file is missing", logger.Data{"key": key})
			return nil, errcodes.NotFound(resource)
		}
		return nil, errors.WithStack(err)
	}
	return r, nil
}

// release deletes a stored object best-effort.
func (svc *Service) release(ctx context.Context, bookID int, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := svc.store.Delete(ctx, *key); err != nil {
		logger.FromContext(ctx).Warn("failed to delete stored file", logger.Data{"book_id": bookID, "key": *key, "error": err.Error()})
	}
}
