package domain

type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Limit() int {
	return p.PerPage
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type Metadata struct {
	CurrentPage int
	PerPage     int
	TotalPages  int
	TotalItems  int
}

func NewMetadata(totalItems, page, perPage int) *Metadata {
	return &Metadata{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  (totalItems + perPage - 1) / perPage,
		TotalItems:  totalItems,
	}
}
