package books

type ListBooksQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,max=100"`
	Author   *string `query:"author" json:"author,omitempty" validate:"omitempty,max=200"`
	Search   *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title       string  `json:"title" mod:"trim" validate:"required,notblank,max=300"`
	Author      string  `json:"author" mod:"trim" validate:"required,notblank,max=200"`
	Category    *string `json:"category,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=20000"`
}

type UpdateBookPayload struct {
	Title       *string `json:"title,omitempty" mod:"trim" validate:"omitempty,notblank,max=300"`
	Author      *string `json:"author,omitempty" mod:"trim" validate:"omitempty,notblank,max=200"`
	Category    *string `json:"category,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=20000"`
}
