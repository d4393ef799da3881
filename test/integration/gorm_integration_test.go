package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"
	"studynotes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.BookmarkRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.StudyActivityRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Transactional user and verification token", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		user := &entity.User{
			Id:        uuid.New(),
			Email:     "test-integration-" + uuid.New().String() + "@example.com",
			FullName:  "Integration Test User",
			Provider:  entity.ProviderEmail,
			Status:    entity.UserStatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err = uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		token := &entity.EmailVerificationToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			Token:     "123456",
			Purpose:   entity.TokenPurposeVerifyEmail,
			ExpiresAt: time.Now().Add(15 * time.Minute),
			CreatedAt: time.Now(),
		}
		err = uow.UserRepository().CreateEmailVerificationToken(ctx, token)
		assert.NoError(t, err)

		found, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: user.Email})
		assert.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("Bookmark dedup key lookup", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		userId := "guest-424242"
		bookmark := &entity.Bookmark{
			Id:     uuid.New(),
			UserId: userId,
			Type:   entity.BookmarkTypeTopic,
			Title:  "Light",
			NoteData: entity.StudyNote{
				Topic:      "Light",
				Subject:    "Science",
				ClassLevel: "Class 10",
				Sections:   []entity.NoteSection{{Heading: "Reflection", ContentPoints: []string{"Angle of incidence equals angle of reflection"}}},
			},
			CreatedAt: time.Now(),
		}
		err = uow.BookmarkRepository().Create(ctx, bookmark)
		assert.NoError(t, err)

		found, err := uow.BookmarkRepository().FindOne(ctx,
			specification.OwnedBy{UserID: userId},
			specification.ByDedupKey{Type: "topic", Topic: "Light", SectionIndex: nil},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.Equal(t, bookmark.Id, found.Id)
	})
}
