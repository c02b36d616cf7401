// Package auth contains domain-level types for operator authentication and
// sessions. It is pure and free of transport/adapter concerns.
package auth

import "time"

// Role represents an application authorization role. The CSMS backend is
// the source of truth; values outside the constants below grant no access.
type Role string

const (
	RoleUser       Role = "user"
	RoleSuperAdmin Role = "super_admin"
)

// Known reports whether the role is one the console understands.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleSuperAdmin
}

// Credentials carries a login form submission.
type Credentials struct {
	Username string
	Password string
}

// User is the profile returned by the CSMS for an authenticated operator.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Tenant   string `json:"tenant,omitempty"`
}

// Session is the server-side record persisted for an authenticated operator.
// ID is an opaque session identifier; Token is the CSMS bearer token every
// backend call on behalf of this operator is made with.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsSuperAdmin returns true if the session belongs to a super admin.
func (s Session) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
