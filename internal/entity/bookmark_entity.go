package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookmarkType string

const (
	BookmarkTypeTopic   BookmarkType = "topic"
	BookmarkTypeSection BookmarkType = "section"
)

// Bookmark is a saved note or note section. NoteData is a full embedded
// copy of the StudyNote, not a reference, so a bookmark survives the
// transient view state it was created from. SectionIndex is set iff
// Type == section.
type Bookmark struct {
	Id           uuid.UUID
	UserId       string
	Type         BookmarkType
	Title        string
	Subtitle     string
	NoteData     StudyNote
	SectionIndex *int
	CreatedAt    time.Time
}
