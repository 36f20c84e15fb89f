package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = HMACKey("test-secret")

func signHMAC(t *testing.T, claims SessionClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func validClaims(sub string) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "https://idp.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Role
	}{
		{"pending", State{}, RoleNone},
		{"pending with user", State{User: &User{PublicMetadata: map[string]interface{}{"role": "admin"}}}, RoleNone},
		{"signed out", State{Loaded: true}, RoleNone},
		{"no metadata", State{Loaded: true, User: &User{ID: "u1"}}, RoleNone},
		{"client", State{Loaded: true, User: &User{PublicMetadata: map[string]interface{}{"role": "client"}}}, RoleClient},
		{"open set", State{Loaded: true, User: &User{PublicMetadata: map[string]interface{}{"role": "paralegal"}}}, Role("paralegal")},
		{"non-string role", State{Loaded: true, User: &User{PublicMetadata: map[string]interface{}{"role": 7}}}, RoleNone},
		{"unsafe only", State{Loaded: true, User: &User{UnsafeMetadata: map[string]interface{}{"role": "admin"}}}, RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRole(tt.state))
		})
	}
}

func TestJWTProviderHMAC(t *testing.T) {
	p := NewJWTProvider(testSecret, ProviderOptions{SessionCookie: "__session", Issuer: "https://idp.test"})

	claims := validClaims("user_1")
	claims.Email = "a@b.test"
	claims.PublicMetadata = map[string]interface{}{"role": "client"}
	claims.UnsafeMetadata = map[string]interface{}{"role": "admin"}
	tok := signHMAC(t, claims)

	req := httptest.NewRequest(http.MethodGet, "/client", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: tok})
	st := p.Load(req)

	require.True(t, st.SignedIn())
	assert.Equal(t, "user_1", st.User.ID)
	assert.Equal(t, tok, st.Token)
	assert.Equal(t, RoleClient, ResolveRole(st))
	assert.Equal(t, RoleAdmin, st.User.UntrustedRole())
}

func TestJWTProviderBearerHeader(t *testing.T) {
	p := NewJWTProvider(testSecret, ProviderOptions{})
	tok := signHMAC(t, validClaims("user_2"))

	req := httptest.NewRequest(http.MethodGet, "/client/api/transcript", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	st := p.Load(req)
	require.True(t, st.SignedIn())
	assert.Equal(t, "user_2", st.User.ID)
}

func TestJWTProviderRejectsBadTokens(t *testing.T) {
	p := NewJWTProvider(testSecret, ProviderOptions{SessionCookie: "__session", Issuer: "https://idp.test"})

	expired := validClaims("u")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := validClaims("u")
	wrongIssuer.Issuer = "https://evil.test"
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("u")).SignedString([]byte("other"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      signHMAC(t, expired),
		"wrong issuer": signHMAC(t, wrongIssuer),
		"forged":       forged,
		"garbage":      "not-a-token",
		"no subject":   signHMAC(t, validClaims("")),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "__session", Value: tok})
			st := p.Load(req)
			assert.True(t, st.Loaded)
			assert.Nil(t, st.User)
			assert.Empty(t, st.Token)
		})
	}
}

func TestJWTProviderPendingUntilKeysLoad(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var serve bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !serve {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{Key: &key.PublicKey, KeyID: "k1", Algorithm: "RS256", Use: "sig"}}}
		_ = json.NewEncoder(w).Encode(set)
	}))
	defer srv.Close()

	cache := NewJWKSCache(srv.URL, srv.Client(), time.Hour)
	p := NewJWTProvider(cache, ProviderOptions{SessionCookie: "__session"})

	claims := validClaims("user_rsa")
	claims.PublicMetadata = map[string]interface{}{"role": "admin"}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	raw, err := tok.SignedString(key)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: raw})

	assert.Error(t, cache.Fetch(context.Background()))
	assert.False(t, p.Load(req).Loaded)

	serve = true
	require.NoError(t, cache.Fetch(context.Background()))
	st := p.Load(req)
	require.True(t, st.SignedIn())
	assert.Equal(t, RoleAdmin, ResolveRole(st))

	_, err = cache.Key("missing")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestStaticProvider(t *testing.T) {
	st := State{Loaded: true, User: &User{ID: "x"}}
	assert.Equal(t, st, StaticProvider(st).Load(httptest.NewRequest(http.MethodGet, "/", nil)))
}
