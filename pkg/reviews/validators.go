package reviews

type CreateReviewPayload struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" mod:"trim" validate:"omitempty,max=5000"`
}

type UpdateReviewPayload struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" mod:"trim" validate:"omitempty,max=5000"`
}
