package repository

import "gorm.io/gorm"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// paginate applies page/limit (1-based) with the list endpoints' bounds.
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
