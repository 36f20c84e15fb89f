// legalai/services/backend/client.go
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	httputils "legalai/legalai/utils/http"
	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"

	"go.uber.org/zap"
)

var (
	ErrQAFailed   = errors.New("QA failed")
	ErrFetchChats = errors.New("failed to fetch chats")
)

// IngestError reports a rejected ingestion. Its text is shown to the admin
// as-is, so it keeps the "Error <status>: <body>" shape.
type IngestError struct {
	StatusCode int
	Body       string
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Legal AI backend. Calls are single attempts: no retry,
// no backoff, and cancellation only through ctx.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// AskQuestion posts a question for the given chat session.
func (c *Client) AskQuestion(ctx context.Context, req types.QARequest, token string) (*types.QAResponse, error) {
	defer logging.LogDuration(ctx, "backend_ask_question")()

	httpReq, err := httputils.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/qa", req)
	if err != nil {
		return nil, err
	}
	httputils.SetBearer(httpReq, token)

	var resp types.QAResponse
	if err := httputils.Do(c.http, httpReq, &resp); err != nil {
		return nil, c.fail("qa", ErrQAFailed, err)
	}
	return &resp, nil
}

// FetchChatHistory returns the stored transcript in the order the backend
// sent it.
func (c *Client) FetchChatHistory(ctx context.Context, token string) ([]types.ChatMessage, error) {
	defer logging.LogDuration(ctx, "backend_fetch_chats")()

	httpReq, err := httputils.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/chats", nil)
	if err != nil {
		return nil, err
	}
	httputils.SetBearer(httpReq, token)

	var history []types.ChatMessage
	if err := httputils.Do(c.http, httpReq, &history); err != nil {
		return nil, c.fail("chats", ErrFetchChats, err)
	}
	return history, nil
}

// IngestDocument uploads a file and/or URL as multipart form data.
func (c *Client) IngestDocument(ctx context.Context, req types.IngestRequest, token string) (*types.IngestResult, error) {
	defer logging.LogDuration(ctx, "backend_ingest")()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if req.HasFile() {
		part, err := mw.CreateFormFile("file", req.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, req.File); err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
	}
	if req.URL != "" {
		if err := mw.WriteField("url", req.URL); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ingest", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httputils.SetBearer(httpReq, token)

	var result types.IngestResult
	if err := httputils.Do(c.http, httpReq, &result); err != nil {
		var se *httputils.StatusError
		if errors.As(err, &se) {
			logging.ErrorLogger.Error("backend ingest rejected", zap.Int("status", se.StatusCode))
			return nil, &IngestError{StatusCode: se.StatusCode, Body: se.Body}
		}
		logging.ErrorLogger.Error("backend ingest failed", zap.Error(err))
		return nil, err
	}
	return &result, nil
}

// Health probes the backend's /health endpoint.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := httputils.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	return httputils.Do(c.http, httpReq, nil)
}

// fail maps a non-2xx status to the generic sentinel and keeps transport
// errors as they are.
func (c *Client) fail(op string, sentinel, err error) error {
	var se *httputils.StatusError
	if errors.As(err, &se) {
		logging.ErrorLogger.Error("backend request rejected", zap.String("op", op), zap.Int("status", se.StatusCode))
		return sentinel
	}
	logging.ErrorLogger.Error("backend request failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s request: %w", op, err)
}
