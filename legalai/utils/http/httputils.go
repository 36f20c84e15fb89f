// legalai/utils/http/httputils.go
package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response is echoed into errors.
const maxErrorBody = 4 << 10

// StatusError is returned when a response is not 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status: %d", e.StatusCode)
	}
	return fmt.Sprintf("bad status: %d: %s", e.StatusCode, e.Body)
}

func NewJSONRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// SetBearer attaches the token as a bearer credential. An empty token leaves
// the request anonymous.
func SetBearer(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// Do sends req and decodes a 2xx JSON body into resp (when non-nil).
// Anything else comes back as *StatusError carrying the raw body text.
func Do(client *http.Client, req *http.Request, resp interface{}) error {
	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
		return &StatusError{StatusCode: r.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if resp == nil {
		return nil
	}
	// an empty 2xx body leaves resp untouched
	if err := json.NewDecoder(r.Body).Decode(resp); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
