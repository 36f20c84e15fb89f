// Package auth adapts the external identity provider. It never issues or
// refreshes sessions; it only reads what the provider already signed.
package auth

// Role is a coarse permission label. The set is open; the empty Role means
// "no role".
type Role string

const (
	RoleNone   Role = ""
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User is the provider's view of the signed-in visitor.
//
// PublicMetadata is writable only by the provider's backend and is the sole
// authorization source. UnsafeMetadata can be set by the visitor from the
// browser and is kept for display and diagnostics.
type User struct {
	ID             string
	Email          string
	PublicMetadata map[string]interface{}
	UnsafeMetadata map[string]interface{}
}

// UntrustedRole is the role the visitor claims for themselves. Never use it
// to authorize anything.
func (u *User) UntrustedRole() Role {
	if u == nil {
		return RoleNone
	}
	return roleFrom(u.UnsafeMetadata)
}

// State is the per-request snapshot handed to guards and controllers.
type State struct {
	// Loaded is false until the provider can verify sessions at all.
	Loaded bool
	User   *User
	// Token is the raw session token, forwarded to the backend as a bearer
	// credential.
	Token string
}

func (s State) SignedIn() bool {
	return s.Loaded && s.User != nil
}

// ResolveRole derives the visitor's role: RoleNone while the provider is
// still loading, when nobody is signed in, or when the public metadata has no
// role.
func ResolveRole(s State) Role {
	if !s.Loaded || s.User == nil {
		return RoleNone
	}
	return roleFrom(s.User.PublicMetadata)
}

func roleFrom(meta map[string]interface{}) Role {
	if meta == nil {
		return RoleNone
	}
	role, _ := meta["role"].(string)
	return Role(role)
}
