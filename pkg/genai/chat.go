package genai

import (
	"context"
	"strings"
	"sync"
)

// Chat is a stateful conversation context against the model. History is
// kept locally and replayed on every turn, which is the Gemini REST
// contract for multi-turn chat. Each NewChat call creates an independent
// context.
type Chat struct {
	client            *Client
	systemInstruction string

	mu      sync.Mutex
	history []*Content
}

func (c *Client) NewChat(systemInstruction string) *Chat {
	return &Chat{
		client:            c,
		systemInstruction: systemInstruction,
	}
}

// SendMessageStream sends one user turn and streams back model fragments.
// The turn (user text plus accumulated reply) is committed to history only
// after the stream completes cleanly, so a failed turn does not poison the
// remote context.
func (ch *Chat) SendMessageStream(ctx context.Context, text string) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	errs := make(chan error, 1)

	ch.mu.Lock()
	contents := make([]*Content, len(ch.history), len(ch.history)+1)
	copy(contents, ch.history)
	ch.mu.Unlock()
	contents = append(contents, TextContent(RoleUser, text))

	request := &Request{Contents: contents}
	if ch.systemInstruction != "" {
		request.SystemInstruction = &Content{Parts: []*Part{{Text: ch.systemInstruction}}}
	}

	fragments, streamErrs := ch.client.StreamGenerateContent(ctx, request)

	go func() {
		defer close(out)
		defer close(errs)

		var reply strings.Builder
		for fragment := range fragments {
			reply.WriteString(fragment)
			out <- fragment
		}
		if err := <-streamErrs; err != nil {
			errs <- err
			return
		}

		ch.mu.Lock()
		ch.history = append(ch.history,
			TextContent(RoleUser, text),
			TextContent(RoleModel, reply.String()),
		)
		ch.mu.Unlock()
	}()

	return out, errs
}

// History returns a copy of the committed conversation contents.
func (ch *Chat) History() []*Content {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]*Content, len(ch.history))
	copy(out, ch.history)
	return out
}
