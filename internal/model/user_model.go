package model

import (
	"time"

	"github.com/google/uuid"
)

// The auth tables reproduce the identity-provider adapter schema verbatim:
// camelCase column names, no surrogate keys beyond what the adapter expects.
// Renaming anything here breaks compatibility with the external adapter.

type User struct {
	Id            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          *string    `gorm:"column:name;type:varchar(255)"`
	Email         string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	EmailVerified *time.Time `gorm:"column:emailVerified"`
	Password      *string    `gorm:"column:password;type:varchar(255)"`
	Role          string     `gorm:"column:role;type:varchar(32);not null;default:'client'"`
	AdminApproved bool       `gorm:"column:adminApproved;default:false"`
	Image         *string    `gorm:"column:image;type:varchar(255)"`
	CreatedAt     time.Time  `gorm:"column:createdAt;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updatedAt;autoUpdateTime"`
}

func (User) TableName() string {
	return "user"
}

type Session struct {
	SessionToken string    `gorm:"column:sessionToken;type:varchar(255);primaryKey"`
	UserId       uuid.UUID `gorm:"column:userId;type:uuid;not null;index"`
	Expires      time.Time `gorm:"column:expires;not null"`

	User User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "session"
}

type Account struct {
	UserId            uuid.UUID `gorm:"column:userId;type:uuid;not null;index"`
	Type              string    `gorm:"column:type;type:varchar(255);not null"`
	Provider          string    `gorm:"column:provider;type:varchar(255);not null;index:account_provider_idx,unique"`
	ProviderAccountId string    `gorm:"column:providerAccountId;type:varchar(255);not null;index:account_provider_idx,unique"`
	RefreshToken      *string   `gorm:"column:refresh_token;type:text"`
	AccessToken       *string   `gorm:"column:access_token;type:text"`
	ExpiresAt         *int64    `gorm:"column:expires_at"`
	TokenType         *string   `gorm:"column:token_type;type:varchar(255)"`
	Scope             *string   `gorm:"column:scope;type:varchar(255)"`
	IdToken           *string   `gorm:"column:id_token;type:text"`
	SessionState      *string   `gorm:"column:session_state;type:varchar(255)"`

	User User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Account) TableName() string {
	return "account"
}

type VerificationToken struct {
	Identifier string    `gorm:"column:identifier;type:varchar(255);not null;index:verification_token_idx"`
	Token      string    `gorm:"column:token;type:varchar(255);not null;uniqueIndex;index:verification_token_idx"`
	Expires    time.Time `gorm:"column:expires;not null"`
}

func (VerificationToken) TableName() string {
	return "verificationToken"
}
