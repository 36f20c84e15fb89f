// legalai/utils/types/chat.go
package types

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageStatus tracks an optimistic user turn until the backend answers.
type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusConfirmed MessageStatus = "confirmed"
	StatusFailed    MessageStatus = "failed"
)

// ChatMessage is one transcript entry. The backend only knows role and
// content; Status is local to the view.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content string        `json:"content"`
	Status  MessageStatus `json:"status,omitempty"`
}

// QARequest is the body of POST /qa.
type QARequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QAResponse is the body returned by POST /qa.
type QAResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// AskRequest is the JSON body accepted by the client chat API.
type AskRequest struct {
	ViewID   string `json:"view_id"`
	Question string `json:"question"`
}

// TranscriptSnapshot is what the chat API and websocket push to the page.
type TranscriptSnapshot struct {
	ViewID     string        `json:"view_id"`
	SessionID  string        `json:"session_id"`
	Loading    bool          `json:"loading"`
	Messages   []ChatMessage `json:"messages"`
	Error      string        `json:"error,omitempty"`
	LatestTurn int           `json:"latest_turn"`
}
