package repository

import "gorm.io/gorm"

const (
	// DefaultPageSize is used when a caller passes no limit
	DefaultPageSize = 50
	// MaxPageSize is the maximum allowed page size for paginated queries
	MaxPageSize = 200
)

// Page is an offset window over an ordered list
type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit to [1, MaxPageSize] (0 means default) and offset to >= 0
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

func (p Page) apply(query *gorm.DB) *gorm.DB {
	return query.Offset(p.Offset).Limit(p.Limit)
}

// recentFirst orders by last update with id as a stable tie breaker
const recentFirst = "updated_at DESC, id DESC"
