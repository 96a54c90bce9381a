package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	Id            uuid.UUID
	Name          *string
	Email         string
	EmailVerified *time.Time
	// Nil for OAuth-only accounts; credential login is impossible for them.
	PasswordHash  *string
	Role          UserRole
	AdminApproved bool
	Image         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session is a stored login session for the database strategy.
// The stateless strategy never materialises one of these.
type Session struct {
	SessionToken string
	UserId       uuid.UUID
	Expires      time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.Expires.After(now)
}

// Account links a user to an external OAuth provider identity.
type Account struct {
	UserId            uuid.UUID
	Type              string
	Provider          string
	ProviderAccountId string
	RefreshToken      *string
	AccessToken       *string
	ExpiresAt         *int64
	TokenType         *string
	Scope             *string
	IdToken           *string
	SessionState      *string
}

type VerificationToken struct {
	Identifier string
	Token      string
	Expires    time.Time
}
