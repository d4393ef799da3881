package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
)

// Client is a thin wrapper over the Gemini REST API. It holds no
// conversation state; see Chat for multi-turn contexts.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(ClientConfig{APIKey: apiKey})
}

func NewClientWithConfig(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether an API key is present. Callers must check
// this before issuing requests so an unconfigured deployment degrades
// gracefully instead of failing on the wire.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Model() string {
	return c.model
}

// GenerateContent issues a blocking generateContent call and returns the
// concatenated candidate text.
func (c *Client) GenerateContent(ctx context.Context, request *Request) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("gemini api key not configured")
	}

	payloadJson, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", newAPIError(res.StatusCode, resBody)
	}

	var geminiRes Response
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if geminiRes.Error != nil {
		return "", &APIError{StatusCode: geminiRes.Error.Code, Status: geminiRes.Error.Status, Message: geminiRes.Error.Message}
	}

	text := strings.TrimSpace(geminiRes.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// StreamGenerateContent issues a streamGenerateContent call over SSE and
// forwards text fragments in arrival order. Both channels are closed when
// the stream ends; at most one error is delivered.
func (c *Client) StreamGenerateContent(ctx context.Context, request *Request) (<-chan string, <-chan error) {
	fragments := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(fragments)
		defer close(errs)

		if !c.Configured() {
			errs <- fmt.Errorf("gemini api key not configured")
			return
		}

		payloadJson, err := json.Marshal(request)
		if err != nil {
			errs <- err
			return
		}

		url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, c.model)
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
		if err != nil {
			errs <- err
			return
		}
		req.Header.Set("x-goog-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		res, err := c.httpClient.Do(req)
		if err != nil {
			errs <- err
			return
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			resBody, _ := io.ReadAll(res.Body)
			errs <- newAPIError(res.StatusCode, resBody)
			return
		}

		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" || data == "[DONE]" {
				continue
			}

			var chunk Response
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if chunk.Error != nil {
				errs <- &APIError{StatusCode: chunk.Error.Code, Status: chunk.Error.Status, Message: chunk.Error.Message}
				return
			}
			if text := chunk.Text(); text != "" {
				select {
				case fragments <- text:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	return fragments, errs
}

// newAPIError decodes the structured error body when present, falling
// back to the raw body text.
func newAPIError(statusCode int, body []byte) *APIError {
	var wrapper struct {
		Error *apiErrorBody `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		return &APIError{StatusCode: statusCode, Status: wrapper.Error.Status, Message: wrapper.Error.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}

// StripFences removes a markdown code fence wrapper that some models add
// around JSON output even when a response schema was requested.
func StripFences(text string) string {
	b := []byte(text)
	b = bytes.TrimSpace(b)
	b = bytes.TrimPrefix(b, []byte("```json"))
	b = bytes.TrimPrefix(b, []byte("```"))
	b = bytes.TrimSuffix(b, []byte("```"))
	return string(bytes.TrimSpace(b))
}
