package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySession struct {
	SessionID uuid.UUID
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.SessionID)
}
