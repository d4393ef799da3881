package dto

import "studynotes-be/internal/entity"

type GetChaptersRequest struct {
	ClassLevel string `json:"class_level" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
}

type GetChaptersResponse struct {
	Categories []entity.ChapterCategory `json:"categories"`
	// Error is set when the catalogue fetch failed; the client falls
	// back to free-text topic entry.
	Error string `json:"error,omitempty"`
}

type GenerateNotesRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// GenerateNotesDirectRequest carries the full selection for callers that
// bypass the navigation flow.
type GenerateNotesDirectRequest struct {
	ClassLevel string `json:"class_level" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Topic      string `json:"topic" validate:"required"`
}

type GenerateNotesResponse struct {
	Note *entity.StudyNote `json:"note"`
}
