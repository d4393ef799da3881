package specification

import "gorm.io/gorm"

// ByDedupKey matches the bookmark identity triple. A topic bookmark has
// no section index; the comparison must treat NULL as equal to NULL.
type ByDedupKey struct {
	Type         string
	Topic        string
	SectionIndex *int
}

func (s ByDedupKey) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("type = ?", s.Type).Where("note_data->>'topic' = ?", s.Topic)
	if s.SectionIndex == nil {
		return db.Where("section_index IS NULL")
	}
	return db.Where("section_index = ?", *s.SectionIndex)
}
