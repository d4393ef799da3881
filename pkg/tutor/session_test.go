package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStreamer replays canned fragments, optionally failing mid-stream.
type fakeStreamer struct {
	fragments []string
	err       error
	block     chan struct{} // when set, the stream waits before finishing
}

func (f *fakeStreamer) SendMessageStream(ctx context.Context, text string) (<-chan string, <-chan error) {
	out := make(chan string, len(f.fragments))
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for _, fr := range f.fragments {
			out <- fr
		}
		if f.block != nil {
			<-f.block
		}
		if f.err != nil {
			errs <- f.err
		}
	}()
	return out, errs
}

func TestSendTurnAppendsUserAndModelMessages(t *testing.T) {
	session := NewSession("s1", "u1", &fakeStreamer{fragments: []string{"New", "ton's ", "laws"}}, "Hi! Ask me anything.")

	var updates []string
	reply, err := session.SendTurn(context.Background(), "Explain Newton's laws", func(acc string) {
		updates = append(updates, acc)
	})

	require.NoError(t, err)
	assert.Equal(t, "Newton's laws", reply)

	transcript := session.Transcript()
	require.Len(t, transcript, 3, "greeting + one user + one model message")
	assert.Equal(t, RoleModel, transcript[0].Role)
	assert.Equal(t, "Explain Newton's laws", transcript[1].Text)
	assert.Equal(t, RoleUser, transcript[1].Role)
	assert.Equal(t, "Newton's laws", transcript[2].Text)

	// the last message grows monotonically
	assert.Equal(t, []string{"New", "Newton's ", "Newton's laws"}, updates)
}

func TestSendTurnEmptyMessageLeavesTranscriptUnchanged(t *testing.T) {
	session := NewSession("s1", "u1", &fakeStreamer{}, "Hello!")

	_, err := session.SendTurn(context.Background(), "   \n\t", nil)

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, session.Transcript(), 1)
}

func TestSendTurnFailureReplacesPartialWithApology(t *testing.T) {
	session := NewSession("s1", "u1", &fakeStreamer{
		fragments: []string{"partial answ"},
		err:       errors.New("stream error: connection reset"),
	}, "")

	_, err := session.SendTurn(context.Background(), "What is osmosis?", nil)

	assert.Error(t, err)
	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, ApologyMessage, transcript[1].Text, "partial fragment must never survive a failed turn")
}

func TestSendTurnRejectsConcurrentTurns(t *testing.T) {
	block := make(chan struct{})
	session := NewSession("s1", "u1", &fakeStreamer{fragments: []string{"thinking"}, block: block}, "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := session.SendTurn(context.Background(), "first question", nil)
		assert.NoError(t, err)
	}()

	// wait until the first turn has appended its placeholder
	for len(session.Transcript()) < 2 {
		time.Sleep(time.Millisecond)
	}

	_, err := session.SendTurn(context.Background(), "second question", nil)
	assert.ErrorIs(t, err, ErrTurnInProgress)

	close(block)
	<-done

	// sequential turns work again once the first completes
	reply, err := session.SendTurn(context.Background(), "third question", nil)
	assert.NoError(t, err)
	assert.Equal(t, "thinking", reply)
}
