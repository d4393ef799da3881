package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTutorSessionRequest struct {
	// InitialQuery carries the one-shot handoff from the Notes view; it
	// seeds the greeting only, it is not sent as a user turn.
	InitialQuery string `json:"initial_query"`
}

type CreateTutorSessionResponse struct {
	Id       uuid.UUID       `json:"id"`
	Greeting TutorMessageDTO `json:"greeting"`
}

type TutorMessageDTO struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type SendTutorChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Text      string    `json:"text" validate:"required"`
}

type SendTutorChatResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	Reply     TutorMessageDTO `json:"reply"`
}

type TutorSessionSummaryResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type TutorHistoryMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
