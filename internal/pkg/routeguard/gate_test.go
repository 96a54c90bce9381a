package routeguard

import (
	"testing"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/pkg/session"

	"github.com/google/uuid"
)

func defaultGate() *Gate {
	return New(
		[]string{"/admin/login", "/admin/register", "/login", "/register", "/signup", "/forgot-password", "/reset-password", "/verify-email"},
		[]string{"/dashboard", "/profile", "/admin"},
		[]string{"/admin"},
	)
}

func clientIdentity() session.Identity {
	return session.Identity{UserID: uuid.New(), Role: entity.UserRoleClient}
}

func adminIdentity() session.Identity {
	return session.Identity{UserID: uuid.New(), Role: entity.UserRoleAdmin}
}

func TestGateDecide(t *testing.T) {
	gate := defaultGate()

	tests := []struct {
		name         string
		identity     session.Identity
		path         string
		wantAllowed  bool
		wantRedirect string
	}{
		{name: "anonymous on public login", identity: session.Anonymous(), path: "/login", wantAllowed: true},
		{name: "anonymous on admin login", identity: session.Anonymous(), path: "/admin/login", wantAllowed: true},
		{name: "anonymous on admin register", identity: session.Anonymous(), path: "/admin/register", wantAllowed: true},
		{name: "anonymous on unlisted path", identity: session.Anonymous(), path: "/", wantAllowed: true},
		{name: "anonymous on dashboard", identity: session.Anonymous(), path: "/dashboard", wantRedirect: LoginPath},
		{name: "anonymous on profile", identity: session.Anonymous(), path: "/profile", wantRedirect: LoginPath},
		{name: "anonymous on admin area", identity: session.Anonymous(), path: "/admin", wantRedirect: LoginPath},
		{name: "client on dashboard", identity: clientIdentity(), path: "/dashboard", wantAllowed: true},
		{name: "client on admin area", identity: clientIdentity(), path: "/admin", wantRedirect: DashboardPath},
		{name: "client on nested admin path", identity: clientIdentity(), path: "/admin/users", wantRedirect: DashboardPath},
		{name: "admin on admin area", identity: adminIdentity(), path: "/admin/dashboard", wantAllowed: true},
		{name: "admin on client dashboard", identity: adminIdentity(), path: "/dashboard", wantAllowed: true},
		{name: "path prefix of protected route", identity: session.Anonymous(), path: "/dashboard/settings", wantRedirect: LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.Decide(tt.identity, tt.path)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Decide(%q).Allowed = %v, want %v", tt.path, got.Allowed, tt.wantAllowed)
			}
			if got.Redirect != tt.wantRedirect {
				t.Errorf("Decide(%q).Redirect = %q, want %q", tt.path, got.Redirect, tt.wantRedirect)
			}
		})
	}
}

// Public must be evaluated before protected and admin. If the order ever
// flips, /admin/login traps anonymous users in a redirect loop.
func TestGatePublicBeatsAdminPrefix(t *testing.T) {
	gate := defaultGate()

	for _, path := range []string{"/admin/login", "/admin/register"} {
		got := gate.Decide(session.Anonymous(), path)
		if !got.Allowed {
			t.Errorf("Decide(%q) redirected to %q, want allowed", path, got.Redirect)
		}
	}
}
