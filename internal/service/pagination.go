package service

import "strconv"

// Pagination summarizes an offset-paginated result set.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the summary for a page window. Pages is
// ceil(total/limit); an out-of-range page keeps the correct totals.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// parsePositiveInt coerces a boundary string to an int ≥ 1, falling
// back to def when the value is absent, non-numeric or less than one.
func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
