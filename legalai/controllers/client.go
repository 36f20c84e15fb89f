package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"legalai/legalai/auth"
	"legalai/legalai/services/chat"
	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"
	"legalai/legalai/web"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// AlertAskFailed is the only thing a client sees when a question fails.
const AlertAskFailed = "Error fetching answer"

// alertParam carries a failed ask across the post-redirect-get.
const (
	alertParam     = "alert"
	alertAskFailed = "ask-failed"
)

var ErrViewNotFound = errors.New("chat view not found")

type ClientController struct {
	renderer *web.Renderer
	registry *chat.Registry
	backend  chat.Backend
}

func NewClientController(renderer *web.Renderer, registry *chat.Registry, backend chat.Backend) *ClientController {
	return &ClientController{renderer: renderer, registry: registry, backend: backend}
}

type ClientData struct {
	Snapshot types.TranscriptSnapshot
	Alert    string
}

func viewURL(id, alert string) string {
	q := url.Values{"view": {id}}
	if alert != "" {
		q.Set(alertParam, alert)
	}
	return "/client?" + q.Encode() + "#latest"
}

// Mount starts a new chat view for every plain page load. ?view=<id>
// re-renders a view the visitor already owns.
func (c *ClientController) Mount(w http.ResponseWriter, r *http.Request, s auth.State) {
	if id := r.URL.Query().Get("view"); id != "" {
		if v, ok := c.registry.Get(id, s.User.ID); ok {
			data := ClientData{Snapshot: v.Snapshot()}
			if r.URL.Query().Get(alertParam) == alertAskFailed {
				data.Alert = AlertAskFailed
			}
			c.render(w, http.StatusOK, s, data)
			return
		}
	}
	v := c.mountView(s)
	c.render(w, http.StatusOK, s, ClientData{Snapshot: v.Snapshot()})
}

func (c *ClientController) mountView(s auth.State) *chat.View {
	v := chat.NewView(c.backend, s.User.ID)
	// a failed history load leaves an empty transcript; the view keeps the error
	_ = v.LoadHistory(s.Token)
	c.registry.Put(v)
	logging.AppLogger.Info("chat view mounted",
		zap.String("view_id", v.ID),
		zap.String("session_id", v.SessionID),
		zap.String("user_id", s.User.ID),
	)
	return v
}

// Ask handles the HTML form and always redirects back to the view, so a
// refresh never re-posts the question. The input comes back empty.
func (c *ClientController) Ask(w http.ResponseWriter, r *http.Request, s auth.State) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := r.PostFormValue("view")
	v, ok := c.registry.Get(id, s.User.ID)
	if !ok {
		http.Redirect(w, r, "/client", http.StatusSeeOther)
		return
	}
	_, err := v.Submit(r.PostFormValue("question"), s.Token)
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyQuestion), errors.Is(err, chat.ErrBusy):
		http.Redirect(w, r, viewURL(v.ID, ""), http.StatusSeeOther)
	case errors.Is(err, chat.ErrViewClosed):
		http.Redirect(w, r, "/client", http.StatusSeeOther)
	default:
		logging.ErrorLogger.Error("ask failed", zap.String("view_id", v.ID), zap.Error(err))
		http.Redirect(w, r, viewURL(v.ID, alertAskFailed), http.StatusSeeOther)
	}
}

// Close unmounts a view.
func (c *ClientController) Close(w http.ResponseWriter, r *http.Request, s auth.State) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c.registry.Remove(r.PostFormValue("view"), s.User.ID)
	http.Redirect(w, r, "/client", http.StatusSeeOther)
}

// AskAPI is the JSON flavour of Ask. The returned status tells the caller
// which way the submit went.
func (c *ClientController) AskAPI(r *http.Request, s auth.State) (any, int, error) {
	var req types.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, http.StatusBadRequest, err
	}
	v, ok := c.registry.Get(req.ViewID, s.User.ID)
	if !ok {
		return nil, http.StatusNotFound, ErrViewNotFound
	}
	_, err := v.Submit(req.Question, s.Token)
	switch {
	case err == nil:
		return v.Snapshot(), http.StatusOK, nil
	case errors.Is(err, chat.ErrEmptyQuestion):
		return nil, http.StatusBadRequest, err
	case errors.Is(err, chat.ErrBusy):
		return nil, http.StatusConflict, err
	case errors.Is(err, chat.ErrViewClosed):
		return nil, http.StatusGone, err
	default:
		logging.ErrorLogger.Error("ask failed", zap.String("view_id", v.ID), zap.Error(err))
		return nil, http.StatusBadGateway, errors.New(AlertAskFailed)
	}
}

func (c *ClientController) Transcript(r *http.Request, s auth.State) (any, int, error) {
	v, ok := c.registry.Get(r.URL.Query().Get("view"), s.User.ID)
	if !ok {
		return nil, http.StatusNotFound, ErrViewNotFound
	}
	return v.Snapshot(), http.StatusOK, nil
}

// FindView returns the caller's view for ?view=<id>.
func (c *ClientController) FindView(r *http.Request, s auth.State) (*chat.View, bool) {
	return c.registry.Get(r.URL.Query().Get("view"), s.User.ID)
}

// TranscriptWebSocket pushes a snapshot after every transcript change until
// the view closes or the socket goes away.
func (c *ClientController) TranscriptWebSocket(ctx context.Context, conn *websocket.Conn, v *chat.View) {
	defer conn.Close(websocket.StatusInternalError, "internal error")

	snaps, unsubscribe := v.Subscribe()
	defer unsubscribe()

	// The page never sends anything; CloseRead notices when it goes away.
	ctx = conn.CloseRead(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "view closed")
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				logging.ErrorLogger.Error("snapshot marshal error", zap.Error(err))
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logging.ErrorLogger.Error("websocket write error", zap.Error(err))
				return
			}
		}
	}
}

func (c *ClientController) render(w http.ResponseWriter, status int, s auth.State, data ClientData) {
	c.renderer.Render(w, status, "client", page(s, "Chat", data))
}
