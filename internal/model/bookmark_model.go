package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Bookmark embeds the full note as a jsonb copy. UserId is a plain string
// so guest identities ("guest-" prefix) share the table with uuid ids.
type Bookmark struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       string         `gorm:"type:varchar(64);not null;index"`
	Type         string         `gorm:"type:varchar(20);not null"`
	Title        string         `gorm:"type:text;not null"`
	Subtitle     string         `gorm:"type:text;not null"`
	NoteData     datatypes.JSON `gorm:"type:jsonb;not null"`
	SectionIndex *int
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
