package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"legalai/legalai/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu      sync.Mutex
	asked   []types.QARequest
	tokens  []string
	history []types.ChatMessage
	histErr error
	answer  string
	askErr  error
	gate    chan struct{} // when set, AskQuestion waits for it or ctx
	entered chan struct{}
}

func (f *fakeBackend) AskQuestion(ctx context.Context, req types.QARequest, token string) (*types.QAResponse, error) {
	f.mu.Lock()
	f.asked = append(f.asked, req)
	f.tokens = append(f.tokens, token)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.askErr != nil {
		return nil, f.askErr
	}
	return &types.QAResponse{Answer: f.answer}, nil
}

func (f *fakeBackend) FetchChatHistory(ctx context.Context, token string) ([]types.ChatMessage, error) {
	return f.history, f.histErr
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.asked)
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	fb := &fakeBackend{answer: "x"}
	v := NewView(fb, "u1")

	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := v.Submit(q, "tok")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}
	assert.Empty(t, v.Snapshot().Messages)
	assert.Zero(t, fb.calls())
}

func TestSubmitAppendsUserThenAssistant(t *testing.T) {
	fb := &fakeBackend{answer: "It depends.", gate: make(chan struct{}), entered: make(chan struct{})}
	v := NewView(fb, "u1")

	done := make(chan error, 1)
	go func() {
		_, err := v.Submit("Can I sue my landlord?", "tok")
		done <- err
	}()

	<-fb.entered
	// the backend has not answered yet, the user turn is already there
	snap := v.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, types.ChatMessage{Role: types.RoleUser, Content: "Can I sue my landlord?", Status: types.StatusPending}, snap.Messages[0])
	assert.True(t, snap.Loading)

	close(fb.gate)
	require.NoError(t, <-done)

	snap = v.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, types.StatusConfirmed, snap.Messages[0].Status)
	assert.Equal(t, types.ChatMessage{Role: types.RoleAssistant, Content: "It depends.", Status: types.StatusConfirmed}, snap.Messages[1])
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, snap.LatestTurn)
}

func TestSubmitReusesSessionID(t *testing.T) {
	fb := &fakeBackend{answer: "a"}
	v := NewView(fb, "u1")

	for _, q := range []string{"one", "two", "three"} {
		_, err := v.Submit(q, "tok")
		require.NoError(t, err)
	}
	require.Len(t, fb.asked, 3)
	for _, req := range fb.asked {
		assert.Equal(t, v.SessionID, req.SessionID)
	}
	assert.NotEqual(t, v.SessionID, NewView(fb, "u1").SessionID)
}

func TestSubmitFailureKeepsFailedTurn(t *testing.T) {
	boom := errors.New("QA failed")
	fb := &fakeBackend{askErr: boom}
	v := NewView(fb, "u1")

	ans, err := v.Submit("hello", "tok")
	assert.Nil(t, ans)
	assert.ErrorIs(t, err, boom)

	snap := v.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, types.RoleUser, snap.Messages[0].Role)
	assert.Equal(t, types.StatusFailed, snap.Messages[0].Status)
	for _, m := range snap.Messages {
		assert.NotEqual(t, types.RoleAssistant, m.Role)
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	fb := &fakeBackend{answer: "a", gate: make(chan struct{}), entered: make(chan struct{})}
	v := NewView(fb, "u1")

	go v.Submit("first", "tok")
	<-fb.entered

	_, err := v.Submit("second", "tok")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, v.Snapshot().Messages, 1)
	close(fb.gate)
}

func TestCloseDropsInFlightResult(t *testing.T) {
	fb := &fakeBackend{answer: "late", gate: make(chan struct{}), entered: make(chan struct{})}
	v := NewView(fb, "u1")

	done := make(chan error, 1)
	go func() {
		_, err := v.Submit("question", "tok")
		done <- err
	}()
	<-fb.entered
	v.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrViewClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled")
	}
	snap := v.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, types.StatusPending, snap.Messages[0].Status)

	_, err := v.Submit("again", "tok")
	assert.ErrorIs(t, err, ErrViewClosed)
}

func TestLoadHistoryIdentityOrder(t *testing.T) {
	history := []types.ChatMessage{
		{Role: "user", Content: "b"},
		{Role: "assistant", Content: "a"},
		{Role: "user", Content: "c"},
	}
	v := NewView(&fakeBackend{history: history}, "u1")
	require.NoError(t, v.LoadHistory("tok"))

	snap := v.Snapshot()
	require.Len(t, snap.Messages, 3)
	for i, m := range snap.Messages {
		assert.Equal(t, history[i].Role, m.Role)
		assert.Equal(t, history[i].Content, m.Content)
		assert.Equal(t, types.StatusConfirmed, m.Status)
	}
	assert.Empty(t, snap.Error)
}

func TestLoadHistoryFailureStartsEmpty(t *testing.T) {
	v := NewView(&fakeBackend{histErr: errors.New("failed to fetch chats")}, "u1")
	assert.Error(t, v.LoadHistory("tok"))

	snap := v.Snapshot()
	assert.Empty(t, snap.Messages)
	assert.NotEmpty(t, snap.Error)
}

func TestSubscribeSeesEveryChange(t *testing.T) {
	fb := &fakeBackend{answer: "a"}
	v := NewView(fb, "u1")
	ch, cancel := v.Subscribe()
	defer cancel()

	initial := <-ch
	assert.Empty(t, initial.Messages)

	_, err := v.Submit("q", "tok")
	require.NoError(t, err)

	// at least the newest snapshot must be delivered
	var last types.TranscriptSnapshot
	for last = range drain(ch) {
	}
	require.Len(t, last.Messages, 2)
	assert.Equal(t, types.RoleAssistant, last.Messages[1].Role)

	v.Close()
	_, open := <-ch
	assert.False(t, open)
}

func drain(ch <-chan types.TranscriptSnapshot) <-chan types.TranscriptSnapshot {
	out := make(chan types.TranscriptSnapshot, 16)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				close(out)
				return out
			}
			out <- s
		default:
			close(out)
			return out
		}
	}
}
