// Package routeguard decides whether a resolved identity may reach a path.
// The decision is pure: no store access, no side effects beyond the verdict.
package routeguard

import (
	"strings"

	"auth-chat-be/internal/pkg/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Allowed  bool
	Redirect string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(path string) Decision {
	return Decision{Redirect: path}
}

// Gate evaluates the three route classes in fixed order: public first, then
// protected, then admin. Public wins over everything so that /admin/login is
// never swallowed by the /admin prefix rule; do not reorder.
type Gate struct {
	public    []string
	protected []string
	admin     []string
}

func New(public, protected, admin []string) *Gate {
	return &Gate{
		public:    public,
		protected: protected,
		admin:     admin,
	}
}

func (g *Gate) Decide(identity session.Identity, path string) Decision {
	if matchesAny(g.public, path) {
		return Allow()
	}

	if matchesAny(g.protected, path) && identity.IsAnonymous() {
		return RedirectTo(LoginPath)
	}

	if matchesAny(g.admin, path) && !identity.IsAdmin() {
		return RedirectTo(DashboardPath)
	}

	return Allow()
}

func matchesAny(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
