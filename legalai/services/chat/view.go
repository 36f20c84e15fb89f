// Package chat holds the state behind one client chat page: the transcript,
// the chat session id sent with every question, and the view's lifetime.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrBusy          = errors.New("a question is already being answered")
	ErrViewClosed    = errors.New("chat view closed")
)

// Backend is the part of the backend client a view needs.
type Backend interface {
	AskQuestion(ctx context.Context, req types.QARequest, token string) (*types.QAResponse, error)
	FetchChatHistory(ctx context.Context, token string) ([]types.ChatMessage, error)
}

// View is one mounted chat page. A new page load mounts a new View with a
// new session id; the transcript only ever grows.
type View struct {
	ID        string
	SessionID string
	OwnerID   string

	backend Backend
	ctx     context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	messages   []types.ChatMessage
	loading    bool
	closed     bool
	historyErr error
	subs       map[int]chan types.TranscriptSnapshot
	nextSub    int
}

func NewView(backend Backend, ownerID string) *View {
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		ID:        uuid.NewString(),
		SessionID: uuid.NewString(),
		OwnerID:   ownerID,
		backend:   backend,
		ctx:       ctx,
		cancel:    cancel,
		subs:      make(map[int]chan types.TranscriptSnapshot),
	}
}

// LoadHistory seeds the transcript from the backend. It runs once, right
// after mount; a failure leaves the transcript empty and is kept for display.
func (v *View) LoadHistory(token string) error {
	history, err := v.backend.FetchChatHistory(v.ctx, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if err != nil {
		v.historyErr = err
		logging.ErrorLogger.Warn("chat history unavailable", zap.String("view_id", v.ID), zap.Error(err))
		return err
	}
	msgs := make([]types.ChatMessage, 0, len(history)+len(v.messages))
	for _, m := range history {
		m.Status = types.StatusConfirmed
		msgs = append(msgs, m)
	}
	v.messages = append(msgs, v.messages...)
	v.publishLocked()
	return nil
}

// Submit asks one question. The user turn is appended as pending before the
// backend is called; it becomes confirmed with an assistant reply on success
// or failed (and stays in the transcript) on error.
func (v *View) Submit(question, token string) (*types.ChatMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrViewClosed
	}
	if v.loading {
		v.mu.Unlock()
		return nil, ErrBusy
	}
	v.loading = true
	idx := len(v.messages)
	v.messages = append(v.messages, types.ChatMessage{Role: types.RoleUser, Content: question, Status: types.StatusPending})
	v.publishLocked()
	v.mu.Unlock()

	resp, err := v.backend.AskQuestion(v.ctx, types.QARequest{Question: question, SessionID: v.SessionID}, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if v.closed {
		// the page is gone; nothing may touch its state anymore
		return nil, ErrViewClosed
	}
	if err != nil {
		v.messages[idx].Status = types.StatusFailed
		v.publishLocked()
		return nil, err
	}
	v.messages[idx].Status = types.StatusConfirmed
	answer := types.ChatMessage{Role: types.RoleAssistant, Content: resp.Answer, Status: types.StatusConfirmed}
	v.messages = append(v.messages, answer)
	v.publishLocked()
	return &answer, nil
}

func (v *View) Snapshot() types.TranscriptSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Subscribe streams a snapshot after every transcript change, starting with
// the current one. Slow readers only ever miss intermediate snapshots.
func (v *View) Subscribe() (<-chan types.TranscriptSnapshot, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch := make(chan types.TranscriptSnapshot, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		})
	}
}

// Done is closed when the view is torn down.
func (v *View) Done() <-chan struct{} {
	return v.ctx.Done()
}

// Close tears the view down: in-flight backend calls are cancelled and their
// results dropped.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

func (v *View) snapshotLocked() types.TranscriptSnapshot {
	msgs := make([]types.ChatMessage, len(v.messages))
	copy(msgs, v.messages)
	snap := types.TranscriptSnapshot{
		ViewID:     v.ID,
		SessionID:  v.SessionID,
		Loading:    v.loading,
		Messages:   msgs,
		LatestTurn: len(msgs) - 1,
	}
	if v.historyErr != nil {
		snap.Error = "Could not load your previous conversations."
	}
	return snap
}

func (v *View) publishLocked() {
	snap := v.snapshotLocked()
	for _, ch := range v.subs {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot with the newest one
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
