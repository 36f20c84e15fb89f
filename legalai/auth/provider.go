package auth

import (
	"errors"
	"net/http"
	"time"

	httputils "legalai/legalai/utils/http"
	"legalai/legalai/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Provider turns an incoming request into the identity state for that
// request.
type Provider interface {
	Load(r *http.Request) State
}

// SessionClaims is the subset of the provider's session token we read.
type SessionClaims struct {
	Email          string                 `json:"email,omitempty"`
	PublicMetadata map[string]interface{} `json:"public_metadata,omitempty"`
	UnsafeMetadata map[string]interface{} `json:"unsafe_metadata,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies the provider-issued session token found in the
// session cookie or the Authorization header.
type JWTProvider struct {
	cookie string
	keys   KeySource
	parser *jwt.Parser
}

type ProviderOptions struct {
	SessionCookie string
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

func NewJWTProvider(keys KeySource, opts ProviderOptions) *JWTProvider {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(keys.Methods()),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &JWTProvider{
		cookie: opts.SessionCookie,
		keys:   keys,
		parser: jwt.NewParser(parserOpts...),
	}
}

func (p *JWTProvider) Load(r *http.Request) State {
	if !p.keys.Ready() {
		return State{}
	}
	raw := p.sessionToken(r)
	if raw == "" {
		return State{Loaded: true}
	}
	user, err := p.Verify(raw)
	if err != nil {
		logging.AppLogger.Debug("session token rejected", zap.Error(err))
		return State{Loaded: true}
	}
	return State{Loaded: true, User: user, Token: raw}
}

// Verify checks the token signature and registered claims and maps the
// custom claims to a User.
func (p *JWTProvider) Verify(raw string) (*User, error) {
	var claims SessionClaims
	_, err := p.parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return p.keys.Key(kid)
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	user := &User{
		ID:             claims.Subject,
		Email:          claims.Email,
		PublicMetadata: claims.PublicMetadata,
		UnsafeMetadata: claims.UnsafeMetadata,
	}
	trusted := roleFrom(user.PublicMetadata)
	if claimed := user.UntrustedRole(); claimed != RoleNone && claimed != trusted {
		// The two metadata locations disagree; only the public one counts.
		logging.ErrorLogger.Warn("role mismatch between public and unsafe metadata",
			zap.String("user_id", user.ID),
			zap.String("public_role", string(trusted)),
			zap.String("unsafe_role", string(claimed)),
		)
	}
	return user, nil
}

func (p *JWTProvider) sessionToken(r *http.Request) string {
	if p.cookie != "" {
		if c, err := r.Cookie(p.cookie); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return httputils.BearerToken(r)
}

// StaticProvider always returns the same state. Guard tests use it in place
// of a token verifier.
type StaticProvider State

func (s StaticProvider) Load(*http.Request) State { return State(s) }
