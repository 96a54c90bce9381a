package specification

import "gorm.io/gorm"

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByProviderAccount struct {
	Provider          string
	ProviderAccountId string
}

func (s ByProviderAccount) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`provider = ? AND "providerAccountId" = ?`, s.Provider, s.ProviderAccountId)
}

type BySessionToken struct {
	Token string
}

func (s BySessionToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`"sessionToken" = ?`, s.Token)
}

type ByVerificationToken struct {
	Identifier string
	Token      string
}

func (s ByVerificationToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identifier = ? AND token = ?", s.Identifier, s.Token)
}
