package scope

import "gorm.io/gorm"

// OrderByCreatedDesc is the fixed ordering for append-only log tables.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
