package chapters

type CreateChapterPayload struct {
	ChapterNumber int    `json:"chapter_number" validate:"required,min=1"`
	Title         string `json:"title" mod:"trim" validate:"required,notblank,max=500"`
	Content       string `json:"content" validate:"required,notblank"`
}

// UpdateChapterPayload has no book_id, so moving a chapter to another book is
// rejected as an unknown parameter.
type UpdateChapterPayload struct {
	ChapterNumber *int    `json:"chapter_number,omitempty" validate:"omitempty,min=1"`
	Title         *string `json:"title,omitempty" mod:"trim" validate:"omitempty,notblank,max=500"`
	Content       *string `json:"content,omitempty" validate:"omitempty,notblank"`
}

// BulkInsertChaptersPayload is checked by the service, which owns the order
// in which the batch preconditions are reported.
type BulkInsertChaptersPayload struct {
	Chapters []ChapterInput `json:"chapters"`
}
