package unitofwork

import (
	"context"

	"studynotes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	BookmarkRepository() contract.BookmarkRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	StudyActivityRepository() contract.StudyActivityRepository
}
