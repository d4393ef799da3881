package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is the persisted record of a tutor conversation. The live
// transcript and remote context live in the in-memory session store;
// rows here survive restarts for history listing.
type ChatSession struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string // "user" | "model"
	Text          string
	CreatedAt     time.Time
}
