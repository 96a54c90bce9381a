package session

import (
	"context"
	"time"

	"auth-chat-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTStrategy encodes the identity into an HS256-signed token. No store
// lookup happens on resolve; expiry and signature are the only gates.
// Role claims are only ever trusted because the signature covers them.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

var _ Resolver = (*JWTStrategy)(nil)
var _ Issuer = (*JWTStrategy)(nil)

func NewJWTStrategy(secret string, ttl time.Duration) *JWTStrategy {
	return &JWTStrategy{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *JWTStrategy) Issue(_ context.Context, user *entity.User) (string, time.Time, error) {
	expires := time.Now().Add(s.ttl)
	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	claims := jwt.MapClaims{
		"sub":   user.Id.String(),
		"role":  string(user.Role),
		"name":  name,
		"email": user.Email,
		"exp":   expires.Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (s *JWTStrategy) Resolve(_ context.Context, tokenStr string) Identity {
	if tokenStr == "" {
		return Anonymous()
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Anonymous()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Anonymous()
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Anonymous()
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return Identity{
		UserID: userID,
		Role:   entity.UserRole(role),
		Name:   name,
		Email:  email,
	}
}

func (s *JWTStrategy) Revoke(context.Context, string) error {
	// Stateless tokens expire on their own.
	return nil
}

func (s *JWTStrategy) RevokeAll(context.Context, uuid.UUID) error {
	return nil
}
