package mapper

import (
	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:            u.Id,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		PasswordHash:  u.Password,
		Role:          entity.UserRole(u.Role),
		AdminApproved: u.AdminApproved,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) UserToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:            u.Id,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Password:      u.PasswordHash,
		Role:          string(u.Role),
		AdminApproved: u.AdminApproved,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		SessionToken: s.SessionToken,
		UserId:       s.UserId,
		Expires:      s.Expires,
	}
}

func (m *UserMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		SessionToken: s.SessionToken,
		UserId:       s.UserId,
		Expires:      s.Expires,
	}
}

func (m *UserMapper) AccountToEntity(a *model.Account) *entity.Account {
	if a == nil {
		return nil
	}
	return &entity.Account{
		UserId:            a.UserId,
		Type:              a.Type,
		Provider:          a.Provider,
		ProviderAccountId: a.ProviderAccountId,
		RefreshToken:      a.RefreshToken,
		AccessToken:       a.AccessToken,
		ExpiresAt:         a.ExpiresAt,
		TokenType:         a.TokenType,
		Scope:             a.Scope,
		IdToken:           a.IdToken,
		SessionState:      a.SessionState,
	}
}

func (m *UserMapper) AccountToModel(a *entity.Account) *model.Account {
	if a == nil {
		return nil
	}
	return &model.Account{
		UserId:            a.UserId,
		Type:              a.Type,
		Provider:          a.Provider,
		ProviderAccountId: a.ProviderAccountId,
		RefreshToken:      a.RefreshToken,
		AccessToken:       a.AccessToken,
		ExpiresAt:         a.ExpiresAt,
		TokenType:         a.TokenType,
		Scope:             a.Scope,
		IdToken:           a.IdToken,
		SessionState:      a.SessionState,
	}
}

func (m *UserMapper) VerificationTokenToEntity(v *model.VerificationToken) *entity.VerificationToken {
	if v == nil {
		return nil
	}
	return &entity.VerificationToken{
		Identifier: v.Identifier,
		Token:      v.Token,
		Expires:    v.Expires,
	}
}

func (m *UserMapper) VerificationTokenToModel(v *entity.VerificationToken) *model.VerificationToken {
	if v == nil {
		return nil
	}
	return &model.VerificationToken{
		Identifier: v.Identifier,
		Token:      v.Token,
		Expires:    v.Expires,
	}
}
