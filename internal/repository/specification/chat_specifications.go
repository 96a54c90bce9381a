package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserOwnedBy scopes chat sessions to their owner. Every read and write of
// chat data goes through this; it is the access-control boundary for chats.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`"userId" = ?`, s.UserID)
}

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`"sessionId" = ?`, s.SessionID)
}

// BySessionIDs matches messages across several sessions, used for per-user
// aggregates where messages only carry a session id.
type BySessionIDs struct {
	SessionIDs []uuid.UUID
}

func (s BySessionIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`"sessionId" IN ?`, s.SessionIDs)
}
