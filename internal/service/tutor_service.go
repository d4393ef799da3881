package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"studynotes-be/internal/constant"
	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/repository/memory"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"
	"studynotes-be/internal/websocket"
	"studynotes-be/pkg/genai"
	"studynotes-be/pkg/tutor"

	"github.com/google/uuid"
)

var ErrTutorSessionNotFound = errors.New("tutor session not found")

const sessionTitleMaxLen = 60

type ITutorService interface {
	CreateSession(ctx context.Context, userId string, req *dto.CreateTutorSessionRequest) (*dto.CreateTutorSessionResponse, error)
	SendChat(ctx context.Context, userId string, req *dto.SendTutorChatRequest) (*dto.SendTutorChatResponse, error)
	ListSessions(ctx context.Context, userId string) ([]*dto.TutorSessionSummaryResponse, error)
	GetHistory(ctx context.Context, userId string, sessionId uuid.UUID) ([]*dto.TutorHistoryMessageResponse, error)
	DeleteSession(ctx context.Context, userId string, sessionId uuid.UUID) error
}

type tutorService struct {
	client           *genai.Client
	uowFactory       unitofwork.RepositoryFactory
	sessions         *memory.TutorSessionRepository
	hub              *websocket.Hub
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewTutorService(
	client *genai.Client,
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.TutorSessionRepository,
	hub *websocket.Hub,
	publisherService IPublisherService,
	log logger.ILogger,
) ITutorService {
	return &tutorService{
		client:           client,
		uowFactory:       uowFactory,
		sessions:         sessions,
		hub:              hub,
		publisherService: publisherService,
		logger:           log,
	}
}

// CreateSession opens a fresh tutor conversation. A handed-off question
// from the notes view seeds the greeting text only; it becomes a user
// turn when the student actually sends it.
func (s *tutorService) CreateSession(ctx context.Context, userId string, req *dto.CreateTutorSessionRequest) (*dto.CreateTutorSessionResponse, error) {
	id := uuid.New()

	greeting := constant.TutorGreeting
	initialQuery := strings.TrimSpace(req.InitialQuery)
	if initialQuery != "" {
		greeting = fmt.Sprintf("%s\n\nI see you want to know about: \"%s\". Go ahead and send it whenever you're ready!", constant.TutorGreeting, initialQuery)
	}

	chat := s.client.NewChat(constant.TutorSystemPromptV1)
	session := tutor.NewSession(id.String(), userId, chat, greeting)
	s.sessions.Save(session)

	// Persist the session row plus the greeting so history survives the
	// in-memory session's expiry.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	row := &entity.ChatSession{
		Id:        id,
		UserId:    userId,
		Title:     sessionTitle(initialQuery),
		CreatedAt: now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, row); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: id,
		Role:          tutor.RoleModel,
		Text:          greeting,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateTutorSessionResponse{
		Id:       id,
		Greeting: dto.TutorMessageDTO{Role: tutor.RoleModel, Text: greeting},
	}, nil
}

// SendChat runs one tutor turn. Fragments are pushed over the websocket
// as they stream in; the full reply is also returned so the HTTP caller
// works without a socket.
func (s *tutorService) SendChat(ctx context.Context, userId string, req *dto.SendTutorChatRequest) (*dto.SendTutorChatResponse, error) {
	session, err := s.liveSession(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	reply, err := session.SendTurn(ctx, req.Text, func(accumulated string) {
		s.hub.Send(userId, websocket.Message{
			Type: "tutor_fragment",
			Data: map[string]interface{}{
				"session_id": req.SessionId,
				"text":       accumulated,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.Send(userId, websocket.Message{
		Type: "tutor_done",
		Data: map[string]interface{}{
			"session_id": req.SessionId,
			"text":       reply,
		},
	})

	// Persist the completed turn
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	turn := []*entity.ChatMessage{
		{Id: uuid.New(), ChatSessionId: req.SessionId, Role: tutor.RoleUser, Text: strings.TrimSpace(req.Text), CreatedAt: now},
		{Id: uuid.New(), ChatSessionId: req.SessionId, Role: tutor.RoleModel, Text: reply, CreatedAt: now},
	}
	if err := uow.ChatMessageRepository().CreateBatch(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, req.SessionId); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.publisherService != nil {
		payload, _ := json.Marshal(dto.PublishStudyActivityMessage{UserId: userId, Action: "tutor_turn"})
		if pubErr := s.publisherService.Publish(ctx, payload); pubErr != nil {
			s.logger.Warn("TutorService", "Failed to publish activity", map[string]interface{}{"error": pubErr.Error()})
		}
	}

	return &dto.SendTutorChatResponse{
		SessionId: req.SessionId,
		Reply:     dto.TutorMessageDTO{Role: tutor.RoleModel, Text: reply},
	}, nil
}

func (s *tutorService) ListSessions(ctx context.Context, userId string) ([]*dto.TutorSessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TutorSessionSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, &dto.TutorSessionSummaryResponse{
			Id:        row.Id,
			Title:     row.Title,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *tutorService) GetHistory(ctx context.Context, userId string, sessionId uuid.UUID) ([]*dto.TutorHistoryMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrTutorSessionNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TutorHistoryMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, &dto.TutorHistoryMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out, nil
}

func (s *tutorService) DeleteSession(ctx context.Context, userId string, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrTutorSessionNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySession(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, userId, sessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sessions.Delete(sessionId.String())
	return nil
}

// liveSession returns the in-memory session, rebuilding one from the
// persisted transcript after an idle expiry. The remote context starts
// empty on a rebuild; the model simply loses memory of older turns.
func (s *tutorService) liveSession(ctx context.Context, userId string, sessionId uuid.UUID) (*tutor.Session, error) {
	if session, found := s.sessions.Get(sessionId.String()); found {
		if session.UserID != userId {
			return nil, ErrTutorSessionNotFound
		}
		return session, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrTutorSessionNotFound
	}

	s.logger.Info("TutorService", "Rebuilding expired tutor session", map[string]interface{}{"session_id": sessionId.String()})
	chat := s.client.NewChat(constant.TutorSystemPromptV1)
	session := tutor.NewSession(sessionId.String(), userId, chat, "")
	s.sessions.Save(session)
	return session, nil
}

func sessionTitle(initialQuery string) string {
	if initialQuery == "" {
		return "New tutor chat"
	}
	if runes := []rune(initialQuery); len(runes) > sessionTitleMaxLen {
		return string(runes[:sessionTitleMaxLen]) + "..."
	}
	return initialQuery
}
