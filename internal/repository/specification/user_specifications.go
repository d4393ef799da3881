package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type ByPurpose struct {
	Purpose string
}

func (s ByPurpose) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("purpose = ?", s.Purpose)
}

type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}

// LiveTokens keeps only refresh tokens that are usable right now.
type LiveTokens struct{}

func (s LiveTokens) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("revoked = false AND expires_at > ?", time.Now())
}
