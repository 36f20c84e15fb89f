package routes

import (
	"net/http"
	"net/url"
	"time"

	"legalai/legalai/auth"
	"legalai/legalai/config"
	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"
	"legalai/legalai/utils/logging"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func ClientRoutes(ctrl *controllers.ClientController, guard *middlewares.Guard, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		// long enough for one backend answer
		gr.Use(middleware.Timeout(cfg.BackendTimeout + 10*time.Second))

		gr.Get("/", guard.Require(auth.RoleClient, ctrl.Mount))
		gr.Post("/ask", guard.Require(auth.RoleClient, ctrl.Ask))
		gr.Post("/close", guard.Require(auth.RoleClient, ctrl.Close))

		gr.Post("/api/ask", guard.RequireAPI(auth.RoleClient, handleJSON(ctrl.AskAPI)))
		gr.Get("/api/transcript", guard.RequireAPI(auth.RoleClient, handleJSON(ctrl.Transcript)))
	})

	// the socket lives as long as the page, so it stays outside the timeout
	origins := originHosts(cfg.CORSOrigins)
	r.HandleFunc("/ws", guard.RequireAPI(auth.RoleClient, func(w http.ResponseWriter, r *http.Request, s auth.State) {
		v, ok := ctrl.FindView(r, s)
		if !ok {
			http.Error(w, controllers.ErrViewNotFound.Error(), http.StatusNotFound)
			return
		}
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: origins})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		ctrl.TranscriptWebSocket(r.Context(), conn, v)
	}))
	return r
}

// originHosts turns configured CORS origins into websocket origin patterns.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if o == "*" {
			hosts = append(hosts, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
