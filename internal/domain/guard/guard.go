// Package guard decides whether a navigation to a given path is permitted
// for the current session, and where to send the browser otherwise. It is a
// pure decision layer: no side effects, no transport concerns, and the same
// input always yields the same decision.
package guard

import (
	"strings"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
)

// Landing pages per authentication/role state.
const (
	PublicLanding     = "/home"
	UserLanding       = "/app"
	SuperAdminLanding = "/"
)

// Input is the tuple a guard decision is computed from. Role is only
// consulted when Authenticated is true.
type Input struct {
	Authenticated bool
	Role          domainauth.Role
	Path          string
}

// Decision is the ephemeral outcome of evaluating an Input. When Allow is
// false, RedirectTo names the path the browser should be sent to; the
// target always satisfies the guard for the same session, so redirect
// chains never exceed length one.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// rule declares who may visit a route subtree and where everyone else goes.
type rule struct {
	path   string // exact match, or prefix match when prefix is true
	prefix bool
	roles  []domainauth.Role
	// fallback is the redirect target for an authenticated session whose
	// role is not in roles. It must itself be allowed for that role.
	fallback map[domainauth.Role]string
}

func (r rule) matches(path string) bool {
	if r.prefix {
		return path == r.path || strings.HasPrefix(path, r.path+"/")
	}
	return path == r.path
}

func (r rule) allows(role domainauth.Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// superAdminFallback is shared by every admin route: a normal user is sent
// straight to their own area rather than bounced through "/".
var superAdminFallback = map[domainauth.Role]string{
	domainauth.RoleUser: UserLanding,
}

var routes = []rule{
	{path: "/", roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/dashboard", roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/cp", prefix: true, roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/diagnose", prefix: true, roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/reports", roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/manage", roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/history", roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/admin", prefix: true, roles: []domainauth.Role{domainauth.RoleSuperAdmin}, fallback: superAdminFallback},
	{path: "/profile", roles: []domainauth.Role{domainauth.RoleSuperAdmin, domainauth.RoleUser}},
	{path: "/app", prefix: true, roles: []domainauth.Role{domainauth.RoleUser}, fallback: map[domainauth.Role]string{
		domainauth.RoleSuperAdmin: SuperAdminLanding,
	}},
}

// publicPaths are reachable without authentication. An authenticated
// session landing on one of these is redirected to its role landing page.
var publicPaths = []rule{
	{path: "/home"},
	{path: "/splash"},
	{path: "/login"},
	{path: "/signup"},
	{path: "/forgot-password"},
	{path: "/reset-password", prefix: true},
}

// IsPublic reports whether the path is reachable without authentication.
func IsPublic(path string) bool {
	path = normalize(path)
	for _, p := range publicPaths {
		if p.matches(path) {
			return true
		}
	}
	return false
}

// Landing returns the natural landing page for a role.
func Landing(role domainauth.Role) string {
	switch role {
	case domainauth.RoleUser:
		return UserLanding
	case domainauth.RoleSuperAdmin:
		return SuperAdminLanding
	default:
		return PublicLanding
	}
}

// Decide evaluates the guard contract for one navigation. It never errors:
// an unrecognized role is treated as no access and routed to the public
// landing page.
func Decide(in Input) Decision {
	path := normalize(in.Path)

	if !in.Authenticated {
		if IsPublic(path) {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: PublicLanding}
	}

	if !in.Role.Known() {
		if IsPublic(path) {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: PublicLanding}
	}

	for _, r := range routes {
		if !r.matches(path) {
			continue
		}
		if r.allows(in.Role) {
			return Decision{Allow: true}
		}
		if target, ok := r.fallback[in.Role]; ok {
			return Decision{RedirectTo: target}
		}
		return Decision{RedirectTo: Landing(in.Role)}
	}

	// Public pages and unknown paths both route an authenticated session
	// to its role landing page.
	return Decision{RedirectTo: Landing(in.Role)}
}

// normalize reduces a request path to the form the route table is declared
// in: leading slash, no trailing slash except for the root itself.
func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
