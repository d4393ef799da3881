package dto

import "studynotes-be/internal/entity"

type SelectClassRequest struct {
	ClassLevel string `json:"class_level" validate:"required"`
}

type SelectSubjectRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type OpenBookmarkRequest struct {
	BookmarkId string `json:"bookmark_id" validate:"required,uuid"`
}

type AskTutorRequest struct {
	Query string `json:"query" validate:"required"`
}

// ViewStateResponse is the rendered navigation snapshot.
type ViewStateResponse struct {
	CurrentView       string                   `json:"current_view"`
	PreviousView      string                   `json:"previous_view,omitempty"`
	SelectedClass     string                   `json:"selected_class,omitempty"`
	SelectedSubject   string                   `json:"selected_subject,omitempty"`
	SelectedTopic     string                   `json:"selected_topic,omitempty"`
	NotesData         *entity.StudyNote        `json:"notes_data,omitempty"`
	AvailableChapters []entity.ChapterCategory `json:"available_chapters,omitempty"`
	IsLoadingChapters bool                     `json:"is_loading_chapters"`
	ChapterError      string                   `json:"chapter_error,omitempty"`
	NotesError        string                   `json:"notes_error,omitempty"`
}

type ConsumedTutorQueryResponse struct {
	Query   string `json:"query"`
	Present bool   `json:"present"`
}

type ConsumedTargetSectionResponse struct {
	SectionIndex int  `json:"section_index"`
	Present      bool `json:"present"`
}
