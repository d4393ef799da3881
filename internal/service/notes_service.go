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
	"studynotes-be/pkg/events"
	"studynotes-be/pkg/genai"
	pktNats "studynotes-be/pkg/nats"
	"studynotes-be/pkg/retry"
	"studynotes-be/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const chapterCacheTTL = 24 * time.Hour

var (
	ErrInvalidClassLevel = errors.New("invalid class level")
	ErrInvalidSubject    = errors.New("invalid subject")
)

type INotesService interface {
	GetChapters(ctx context.Context, class entity.ClassLevel, subject entity.Subject) ([]entity.ChapterCategory, error)
	GenerateNotes(ctx context.Context, userId string, class entity.ClassLevel, subject entity.Subject, topic string) (*entity.StudyNote, error)
}

type notesService struct {
	client           *genai.Client
	retryPolicy      retry.Policy
	rdb              *redis.Client
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewNotesService(
	client *genai.Client,
	retryPolicy retry.Policy,
	rdb *redis.Client,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INotesService {
	return &notesService{
		client:           client,
		retryPolicy:      retryPolicy,
		rdb:              rdb,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// GetChapters returns the chapter catalogue for a class/subject pair.
// The catalogue is cached: it is curriculum data, identical for every
// user. An empty remote response yields an empty catalogue, not an
// error; the topic screen stays usable through free-text entry.
func (s *notesService) GetChapters(ctx context.Context, class entity.ClassLevel, subject entity.Subject) ([]entity.ChapterCategory, error) {
	if !class.Valid() {
		return nil, ErrInvalidClassLevel
	}
	if !subject.Valid() {
		return nil, ErrInvalidSubject
	}

	// 1. Cache lookup
	cacheKey := fmt.Sprintf("chapters:%s:%s", class, subject)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var categories []entity.ChapterCategory
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	// 2. Build the request with the fixed categorization policy
	categories := entity.ChapterCategoryNames(class, subject)
	prompt := constant.ChapterListPrompt(string(class), string(subject), strings.Join(categories, ", "))

	req := &genai.Request{
		Contents: []*genai.Content{genai.TextContent(genai.RoleUser, prompt)},
		GenerationConfig: &genai.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   constant.ChapterListResponseSchema(),
		},
	}

	// 3. Call through the retry wrapper
	raw, err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) (string, error) {
		return s.client.GenerateContent(ctx, req)
	})
	if err != nil {
		if errors.Is(err, genai.ErrEmptyResponse) {
			return []entity.ChapterCategory{}, nil
		}
		return nil, err
	}

	// 4. Parse
	var result []entity.ChapterCategory
	if err := json.Unmarshal([]byte(genai.StripFences(raw)), &result); err != nil {
		s.logger.Warn("NotesService", "Chapter catalogue did not parse", map[string]interface{}{"error": err.Error()})
		return nil, genai.ErrMalformedResponse
	}

	// 5. Cache
	if s.rdb != nil && len(result) > 0 {
		if data, err := json.Marshal(result); err == nil {
			s.rdb.Set(ctx, cacheKey, data, chapterCacheTTL)
		}
	}

	return result, nil
}

// GenerateNotes produces a complete structured note for the topic. The
// response is shape-checked at this boundary; nothing dynamic flows past
// it. Exponent carets are normalized to Unicode superscripts before the
// parse so "x^2" renders as "x²" everywhere downstream.
func (s *notesService) GenerateNotes(ctx context.Context, userId string, class entity.ClassLevel, subject entity.Subject, topic string) (*entity.StudyNote, error) {
	if !class.Valid() {
		return nil, ErrInvalidClassLevel
	}
	if !subject.Valid() {
		return nil, ErrInvalidSubject
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("topic is required")
	}

	// 1. Build the request
	req := &genai.Request{
		Contents: []*genai.Content{genai.TextContent(genai.RoleUser, constant.NotesPrompt(string(class), string(subject), topic))},
		GenerationConfig: &genai.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   constant.NotesResponseSchema(),
		},
	}

	// 2. Call through the retry wrapper
	raw, err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) (string, error) {
		return s.client.GenerateContent(ctx, req)
	})
	if err != nil {
		if retry.IsTransient(err) {
			s.logger.Warn("NotesService", "Retry budget exhausted", map[string]interface{}{"topic": topic, "error": err.Error()})
		}
		return nil, err
	}

	// 3. Normalize, then parse
	cleaned := utils.NormalizeExponents(genai.StripFences(raw))

	var note entity.StudyNote
	if err := json.Unmarshal([]byte(cleaned), &note); err != nil {
		s.logger.Warn("NotesService", "Generated note did not parse", map[string]interface{}{"topic": topic, "error": err.Error()})
		return nil, genai.ErrMalformedResponse
	}
	if len(note.Sections) == 0 {
		return nil, genai.ErrMalformedResponse
	}

	// 4. Denormalize from the selection, not the model's echo
	note.Topic = topic
	note.Subject = string(subject)
	note.ClassLevel = string(class)

	// 5. Record the activity
	s.recordActivity(ctx, userId, "notes_generated", class, subject, topic)

	return &note, nil
}

func (s *notesService) recordActivity(ctx context.Context, userId, action string, class entity.ClassLevel, subject entity.Subject, topic string) {
	if s.publisherService != nil {
		payload, _ := json.Marshal(dto.PublishStudyActivityMessage{
			UserId:     userId,
			Action:     action,
			ClassLevel: string(class),
			Subject:    string(subject),
			Topic:      topic,
		})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("NotesService", "Failed to publish activity", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "NOTES_GENERATED",
			Data: map[string]interface{}{
				"user_id": userId,
				"class":   string(class),
				"subject": string(subject),
				"topic":   topic,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("NotesService", "Failed to publish NOTES_GENERATED event", map[string]interface{}{"error": err.Error()})
		}
	}
}
