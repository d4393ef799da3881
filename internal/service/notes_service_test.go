package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studynotes-be/internal/entity"
	"studynotes-be/pkg/genai"
	"studynotes-be/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genaiTextResponse(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(body)
}

func newNotesServiceForTest(serverURL string) INotesService {
	client := genai.NewClientWithConfig(genai.ClientConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
	})
	policy := retry.Policy{MaxRetries: 1, InitialDelay: time.Millisecond}
	return NewNotesService(client, policy, nil, nil, nil, noopLogger{})
}

func TestGenerateNotesDenormalizesFromSelection(t *testing.T) {
	noteJSON := `{"topic":"Whatever The Model Echoed","subject":"History","classLevel":"Class 7",` +
		`"introduction":"Energy and mass.","sections":[{"heading":"Mass-energy","contentPoints":["E = mc^2 ties them together"]}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, genaiTextResponse(noteJSON))
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	note, err := svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "Mass-Energy Equivalence")
	require.NoError(t, err)

	// selection wins over whatever the model echoed back
	assert.Equal(t, "Mass-Energy Equivalence", note.Topic)
	assert.Equal(t, "Science", note.Subject)
	assert.Equal(t, "10", note.ClassLevel)

	// caret exponents arrive as superscripts
	require.Len(t, note.Sections, 1)
	assert.Equal(t, "E = mc² ties them together", note.Sections[0].ContentPoints[0])
}

func TestGenerateNotesStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n{\"topic\":\"Light\",\"sections\":[{\"heading\":\"Reflection\",\"contentPoints\":[\"p\"]}]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, genaiTextResponse(fenced))
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	note, err := svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "Light")
	require.NoError(t, err)
	assert.Equal(t, "Reflection", note.Sections[0].Heading)
}

func TestGenerateNotesMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, genaiTextResponse("Sorry, I cannot produce JSON today."))
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	_, err := svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "Light")
	assert.ErrorIs(t, err, genai.ErrMalformedResponse)
}

func TestGenerateNotesRejectsNoteWithoutSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, genaiTextResponse(`{"topic":"Light","sections":[]}`))
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	_, err := svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "Light")
	assert.ErrorIs(t, err, genai.ErrMalformedResponse)
}

func TestGenerateNotesSurfacesTransientAfterRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	_, err := svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "Light")

	// the rate-limit error comes through raw; the high-traffic kind is
	// reserved for syllabus analysis
	require.Error(t, err)
	assert.NotErrorIs(t, err, genai.ErrHighTraffic)
	var apiErr *genai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Transient())
	assert.Equal(t, 2, calls, "one attempt plus one retry")
}

func TestGenerateNotesValidatesSelection(t *testing.T) {
	svc := newNotesServiceForTest("http://unused")

	_, err := svc.GenerateNotes(context.Background(), "user-1", "13", "Science", "Light")
	assert.ErrorIs(t, err, ErrInvalidClassLevel)

	_, err = svc.GenerateNotes(context.Background(), "user-1", "10", "Astrology", "Light")
	assert.ErrorIs(t, err, ErrInvalidSubject)

	_, err = svc.GenerateNotes(context.Background(), "user-1", "10", "Science", "   ")
	assert.Error(t, err)
}

func TestGetChaptersEmptyResponseYieldsEmptyCatalogue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	chapters, err := svc.GetChapters(context.Background(), "10", "Science")
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestGetChaptersParsesCatalogue(t *testing.T) {
	catalogue := `[{"category":"Physics","chapters":["Light","Sound"]},{"category":"Biology","chapters":["Life Processes"]}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, genaiTextResponse(catalogue))
	}))
	defer server.Close()

	svc := newNotesServiceForTest(server.URL)
	chapters, err := svc.GetChapters(context.Background(), "10", "Science")
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, entity.ChapterCategory{Category: "Physics", Chapters: []string{"Light", "Sound"}}, chapters[0])
}
