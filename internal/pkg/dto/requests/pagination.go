package requests

type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the zero-based index of the first row of the page.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
