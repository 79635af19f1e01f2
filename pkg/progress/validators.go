package progress

type RecordProgressPayload struct {
	BookID          int     `json:"book_id" validate:"required,min=1"`
	ChapterNumber   int     `json:"chapter_number" validate:"min=0"`
	PercentComplete float64 `json:"percent_complete" validate:"min=0,max=100"`
}

// ListHistoryQuery pages only when limit or offset is given.
type ListHistoryQuery struct {
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=in_progress completed"`
	Limit  *int    `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
	Offset *int    `query:"offset" json:"offset,omitempty" validate:"omitempty,min=0"`
}
