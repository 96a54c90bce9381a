// Package session resolves an inbound session token to an authenticated
// identity. Two interchangeable strategies exist: a stateless signed token
// (jwt) and a stored opaque token (database). Resolution never mutates
// session state and never fails a request; anything invalid is Anonymous.
package session

import (
	"context"
	"time"

	"auth-chat-be/internal/entity"

	"github.com/google/uuid"
)

const (
	StrategyJWT      = "jwt"
	StrategyDatabase = "database"
)

// Identity is the resolved (user, role) pair for a request.
// The zero value is anonymous.
type Identity struct {
	UserID uuid.UUID
	Role   entity.UserRole
	Name   string
	Email  string
}

func Anonymous() Identity {
	return Identity{}
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

func (i Identity) IsAdmin() bool {
	return !i.IsAnonymous() && i.Role == entity.UserRoleAdmin
}

// Resolver turns a raw cookie value into an Identity. Implementations are
// side-effect-free: no renewal, no writes, no errors surfaced to the caller.
type Resolver interface {
	Resolve(ctx context.Context, token string) Identity
}

// Issuer mints a session token for a freshly authenticated user.
type Issuer interface {
	Issue(ctx context.Context, user *entity.User) (token string, expires time.Time, err error)
	// Revoke invalidates a token where the strategy supports it; the
	// stateless strategy treats this as a no-op.
	Revoke(ctx context.Context, token string) error
	// RevokeAll invalidates every token held by the user, again a no-op
	// for the stateless strategy.
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
