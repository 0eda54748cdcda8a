package dto

// Page is the offset-pagination envelope shared by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// NewPage builds a Page for a 0-based page number.
func NewPage[T any](content []T, total int64, number, size int) *Page[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        number,
		Size:          size,
	}
}
