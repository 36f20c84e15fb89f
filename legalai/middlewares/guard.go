// legalai/middlewares/guard.go
package middlewares

import (
	"encoding/json"
	"net/http"

	"legalai/legalai/auth"
)

// Outcome is the result of one guard evaluation. Every outcome is final for
// the request it was computed for.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeAuthorized
	OutcomeUnauthenticated
	OutcomeWrongRole
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeWrongRole:
		return "wrong_role"
	}
	return "unknown"
}

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Evaluate decides whether a visitor in state s may see a view that needs
// required. An empty required role only asks for a signed-in visitor.
func Evaluate(s auth.State, required auth.Role) Outcome {
	if !s.Loaded {
		return OutcomePending
	}
	if s.User == nil {
		return OutcomeUnauthenticated
	}
	if required != auth.RoleNone && auth.ResolveRole(s) != required {
		return OutcomeWrongRole
	}
	return OutcomeAuthorized
}

// HandlerFunc is an http.HandlerFunc that receives the identity state
// explicitly instead of digging it out of the request context.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, s auth.State)

// Guard wraps views with role checks against a Provider.
type Guard struct {
	provider auth.Provider
	loading  http.Handler
}

// NewGuard builds a Guard. loading renders the placeholder shown while the
// provider is still loading.
func NewGuard(provider auth.Provider, loading http.Handler) *Guard {
	return &Guard{provider: provider, loading: loading}
}

// Require serves next only to visitors holding role. Browsers are redirected
// to the login or unauthorized page otherwise.
func (g *Guard) Require(role auth.Role, next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := g.provider.Load(r)
		switch Evaluate(s, role) {
		case OutcomePending:
			w.Header().Set("Cache-Control", "no-store")
			g.loading.ServeHTTP(w, r)
		case OutcomeUnauthenticated:
			http.Redirect(w, r, LoginPath, http.StatusFound)
		case OutcomeWrongRole:
			http.Redirect(w, r, UnauthorizedPath, http.StatusFound)
		default:
			next(w, r, s)
		}
	}
}

// RequireAPI is Require for JSON and websocket endpoints: failures become
// status codes instead of redirects.
func (g *Guard) RequireAPI(role auth.Role, next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := g.provider.Load(r)
		switch Evaluate(s, role) {
		case OutcomePending:
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "identity provider loading")
		case OutcomeUnauthenticated:
			writeError(w, http.StatusUnauthorized, "unauthorized")
		case OutcomeWrongRole:
			writeError(w, http.StatusForbidden, "forbidden")
		default:
			next(w, r, s)
		}
	}
}

// Optional never blocks; public pages use it to render the navbar.
func (g *Guard) Optional(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r, g.provider.Load(r))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
