package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"studynotes-be/internal/constant"
	"studynotes-be/internal/dto"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/pkg/genai"
	"studynotes-be/pkg/retry"
)

// Uploads past ~4MB inflate the request body beyond what the generative
// endpoint accepts once base64-encoded.
const maxSyllabusBytes = 4 << 20

var (
	ErrSyllabusTooLarge        = errors.New("syllabus file exceeds the size limit")
	ErrUnsupportedSyllabusType = errors.New("unsupported syllabus file type")
)

var supportedSyllabusTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"text/plain":      true,
}

type ISyllabusService interface {
	Analyze(ctx context.Context, userId string, data []byte, mimeType string) (string, error)
}

type syllabusService struct {
	client           *genai.Client
	retryPolicy      retry.Policy
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSyllabusService(client *genai.Client, retryPolicy retry.Policy, publisherService IPublisherService, log logger.ILogger) ISyllabusService {
	return &syllabusService{
		client:           client,
		retryPolicy:      retryPolicy,
		publisherService: publisherService,
		logger:           log,
	}
}

// Analyze sends the uploaded document inline alongside the analysis
// instructions and returns the markdown report. Nothing is stored; the
// document lives only for the duration of the call.
func (s *syllabusService) Analyze(ctx context.Context, userId string, data []byte, mimeType string) (string, error) {
	// 1. Validate the upload
	if len(data) == 0 {
		return "", errors.New("syllabus file is empty")
	}
	if len(data) > maxSyllabusBytes {
		return "", ErrSyllabusTooLarge
	}
	if !supportedSyllabusTypes[mimeType] {
		return "", ErrUnsupportedSyllabusType
	}

	// 2. Build the multimodal request: instructions plus the inline blob
	req := &genai.Request{
		Contents: []*genai.Content{
			{
				Role: genai.RoleUser,
				Parts: []*genai.Part{
					{Text: constant.SyllabusAnalysisPromptV1},
					{InlineData: &genai.Blob{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		},
	}

	// 3. Call through the retry wrapper
	analysis, err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) (string, error) {
		return s.client.GenerateContent(ctx, req)
	})
	if err != nil {
		if errors.Is(err, genai.ErrEmptyResponse) {
			return "", genai.ErrEmptyAnalysis
		}
		if retry.IsTransient(err) {
			s.logger.Warn("SyllabusService", "Retry budget exhausted", map[string]interface{}{"error": err.Error()})
			return "", genai.ErrHighTraffic
		}
		return "", err
	}

	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return "", genai.ErrEmptyAnalysis
	}

	// 4. Record the activity
	if s.publisherService != nil {
		payload, _ := json.Marshal(dto.PublishStudyActivityMessage{
			UserId: userId,
			Action: "syllabus_analyzed",
		})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("SyllabusService", "Failed to publish activity", map[string]interface{}{"error": err.Error()})
		}
	}

	return analysis, nil
}
