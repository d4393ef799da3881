package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	// ApologyMessage replaces a partially streamed reply when a turn
	// fails, so the transcript is never left silently truncated.
	ApologyMessage = "I'm sorry, I encountered an error. Please try again."
)

var (
	// ErrEmptyMessage is returned for a blank or whitespace-only turn;
	// the transcript is left unchanged.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTurnInProgress is returned when a turn is sent while another is
	// still streaming. Turns are strictly serialized per session.
	ErrTurnInProgress = errors.New("a tutor turn is already in progress")
)

// Message is one transcript entry. All entries are immutable once
// appended, except the latest model entry while its reply streams.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Streamer is the remote conversation context behind a session,
// typically a *genai.Chat.
type Streamer interface {
	SendMessageStream(ctx context.Context, text string) (<-chan string, <-chan error)
}

// Session holds the ordered conversation transcript for one tutor chat.
type Session struct {
	ID     string
	UserID string

	chat Streamer

	mu         sync.Mutex
	transcript []Message
	inFlight   bool
}

// NewSession creates a session seeded with a greeting. The greeting is a
// transcript-only model entry and is never sent to the remote context as
// a user turn.
func NewSession(id, userID string, chat Streamer, greeting string) *Session {
	s := &Session{
		ID:     id,
		UserID: userID,
		chat:   chat,
	}
	if greeting != "" {
		s.transcript = append(s.transcript, Message{Role: RoleModel, Text: greeting})
	}
	return s
}

// SendTurn appends a user message and a placeholder model message, then
// streams the reply into the placeholder fragment by fragment. onUpdate,
// when non-nil, is invoked with the accumulated reply after each fragment
// so observers can watch the last message grow. The final reply text is
// returned; on failure the placeholder is replaced with ApologyMessage and
// the failure is returned.
func (s *Session) SendTurn(ctx context.Context, text string, onUpdate func(accumulated string)) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrTurnInProgress
	}
	s.inFlight = true
	s.transcript = append(s.transcript,
		Message{Role: RoleUser, Text: text},
		Message{Role: RoleModel, Text: ""},
	)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	fragments, errs := s.chat.SendMessageStream(ctx, text)

	var reply strings.Builder
	for fragment := range fragments {
		reply.WriteString(fragment)
		s.setLastModelText(reply.String())
		if onUpdate != nil {
			onUpdate(reply.String())
		}
	}
	if err := <-errs; err != nil {
		s.setLastModelText(ApologyMessage)
		if onUpdate != nil {
			onUpdate(ApologyMessage)
		}
		return "", err
	}

	return reply.String(), nil
}

func (s *Session) setLastModelText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript[len(s.transcript)-1].Text = text
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}
