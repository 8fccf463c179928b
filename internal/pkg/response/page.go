package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageParams reads page and limit from the query string. Out of range
// values fall back to the defaults.
func PageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, DefaultLimit

	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= MaxLimit {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	return page, limit
}

func NewPage[T any](items []T, page, limit int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Pagination: Pagination{Page: page, Limit: limit, Total: total},
	}
}
