package stats

// ChaptersReadQuery defaults to the current month when from or to is empty.
type ChaptersReadQuery struct {
	From string `query:"from" json:"from,omitempty" validate:"date"`
	To   string `query:"to" json:"to,omitempty" validate:"date"`
}

type LoginsQuery struct {
	Days int `query:"days" json:"days,omitempty" default:"30" validate:"min=1,max=366"`
}
