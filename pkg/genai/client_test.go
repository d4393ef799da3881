package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return NewClientWithConfig(ClientConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
	})
}

func TestGenerateContentReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"world"}],"role":"model"}}]}`)
	}))
	defer server.Close()

	got, err := testClient(server.URL).GenerateContent(context.Background(), &Request{
		Contents: []*Content{TextContent(RoleUser, "hi")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GenerateContent(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateContentRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GenerateContent(context.Background(), &Request{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
	assert.True(t, apiErr.Transient())
}

func TestGenerateContentServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"Invalid argument","status":"INVALID_ARGUMENT"}}`)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GenerateContent(context.Background(), &Request{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.Transient())
}

func TestGenerateContentUnconfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.GenerateContent(context.Background(), &Request{})
	assert.Error(t, err)
	assert.False(t, client.Configured())
}

func TestStreamGenerateContentForwardsFragmentsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"The \"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"mitochondria\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" is...\"}]}}]}\n\n")
	}))
	defer server.Close()

	fragments, errs := testClient(server.URL).StreamGenerateContent(context.Background(), &Request{})

	var got []string
	for f := range fragments {
		got = append(got, f)
	}
	require.NoError(t, <-errs)
	assert.Equal(t, []string{"The ", "mitochondria", " is..."}, got)
}

func TestStreamGenerateContentMidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"partial\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"error\":{\"code\":503,\"message\":\"overloaded\",\"status\":\"UNAVAILABLE\"}}\n\n")
	}))
	defer server.Close()

	fragments, errs := testClient(server.URL).StreamGenerateContent(context.Background(), &Request{})

	for range fragments {
	}
	err := <-errs
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Transient())
}

func TestChatCommitsHistoryOnlyOnSuccess(t *testing.T) {
	fail := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"answer\"}]}}]}\n\n")
	}))
	defer server.Close()

	chat := testClient(server.URL).NewChat("You are a tutor.")

	fragments, errs := chat.SendMessageStream(context.Background(), "q1")
	for range fragments {
	}
	assert.Error(t, <-errs)
	assert.Empty(t, chat.History(), "failed turn must not be committed")

	fail = false
	fragments, errs = chat.SendMessageStream(context.Background(), "q1")
	for range fragments {
	}
	assert.NoError(t, <-errs)
	require.Len(t, chat.History(), 2)
	assert.Equal(t, RoleUser, chat.History()[0].Role)
	assert.Equal(t, RoleModel, chat.History()[1].Role)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
}

func TestAPIErrorMessageMarkers(t *testing.T) {
	err := &APIError{StatusCode: 500, Message: "quota exceeded for requests per minute"}
	assert.True(t, err.Transient())
	assert.True(t, func() bool {
		var te interface{ Transient() bool }
		return errors.As(error(err), &te) && te.Transient()
	}())
}
