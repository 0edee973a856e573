package models

// Page is the backend's paged listing envelope. Page numbers are zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

type CreditsPage struct {
	Page[Customer]
	TotalCredits   float64 `json:"totalCredits"`
	AverageCredits float64 `json:"averageCredits"`
}

// EmptyPage is what a 204 on a search endpoint turns into.
func EmptyPage[T any](page, size int) Page[T] {
	return Page[T]{
		Content: []T{},
		Page:    page,
		Size:    size,
		Last:    true,
	}
}

func (p Page[T]) HasPrev() bool {
	return p.Page > 0
}

func (p Page[T]) HasNext() bool {
	return !p.Last && p.Page+1 < p.TotalPages
}
