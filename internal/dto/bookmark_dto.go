package dto

import (
	"time"

	"github.com/google/uuid"

	"studynotes-be/internal/entity"
)

type AddBookmarkRequest struct {
	Type         string           `json:"type" validate:"required,oneof=topic section"`
	Note         entity.StudyNote `json:"note" validate:"required"`
	SectionIndex *int             `json:"section_index"`
}

type BookmarkResponse struct {
	Id           uuid.UUID        `json:"id"`
	Type         string           `json:"type"`
	Title        string           `json:"title"`
	Subtitle     string           `json:"subtitle"`
	NoteData     entity.StudyNote `json:"note_data"`
	SectionIndex *int             `json:"section_index,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
