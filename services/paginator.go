package services

import (
	"math"

	"github.com/billow-homes/homes-api/models"
)

// Window is a normalized page request.
type Window struct {
	Page   int
	Limit  int
	Offset int64
}

// NewWindow normalizes caller-supplied page/limit. A non-positive limit
// falls back to defaultLimit, limits above maxLimit are capped, and pages
// below 1 are read as 1. A page too far out to address gets an offset of
// math.MaxInt64, which is past the end of any collection.
func NewWindow(page, limit, defaultLimit, maxLimit int) Window {
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	offset := int64(math.MaxInt64)
	if int64(page-1) <= math.MaxInt64/int64(limit) {
		offset = int64(page-1) * int64(limit)
	}
	return Window{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// Result wraps one window of results with its navigation links.
func (w Window) Result(results []models.Home, total int64) models.Page {
	if results == nil {
		results = []models.Home{}
	}
	page := models.Page{Results: results, Total: total}
	if w.Offset > 0 {
		page.Previous = &models.PageRef{Page: w.Page - 1, Limit: w.Limit}
	}
	if total-w.Offset > int64(w.Limit) {
		page.Next = &models.PageRef{Page: w.Page + 1, Limit: w.Limit}
	}
	return page
}
