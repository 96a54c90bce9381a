package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/pkg/credentials"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/pkg/mailer"
	"auth-chat-be/internal/pkg/session"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"auth-chat-be/pkg/events"
	pktNats "auth-chat-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	ClientDashboardPath = "/dashboard"
	AdminDashboardPath  = "/admin/dashboard"
)

// AuthSession carries the issued token so the controller can set cookies.
type AuthSession struct {
	Token   string
	Expires time.Time
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *AuthSession, error)
	Logout(ctx context.Context, token string) error
	LogoutAll(ctx context.Context, userId uuid.UUID) error
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	issuer         session.Issuer
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer session.Issuer,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		issuer:         issuer,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := entity.UserRoleClient
	if req.Role == string(entity.UserRoleAdmin) {
		// Admin self-registration lands in a pending state until approved.
		role = entity.UserRoleAdmin
	}

	name := req.Name
	user := &entity.User{
		Id:            uuid.New(),
		Name:          &name,
		Email:         req.Email,
		PasswordHash:  &hash,
		Role:          role,
		AdminApproved: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	verifyToken, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	tokenEntity := &entity.VerificationToken{
		Identifier: user.Email,
		Token:      verifyToken,
		Expires:    time.Now().Add(24 * time.Hour),
	}
	if err := uow.UserRepository().CreateVerificationToken(ctx, tokenEntity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendVerificationLink(user.Email, verifyToken); emailErr != nil {
			s.log.Error("auth", "failed to send verification email", map[string]interface{}{
				"email": user.Email,
				"error": emailErr.Error(),
			})
		}
	}()

	s.publishEvent(ctx, "USER_REGISTERED", map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
		"role":    string(user.Role),
	})

	return &dto.RegisterResponse{User: toUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *AuthSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		s.log.Error("auth", "login lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, ErrInvalidCredentials
	}

	// A nil user and an OAuth-only account both fall through to the same
	// generic failure; Verify handles the nil hash.
	var storedHash *string
	if user != nil {
		storedHash = user.PasswordHash
	}
	if !credentials.Verify(storedHash, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	// A portal that names a role only accepts accounts of exactly that role.
	if req.Role != "" && req.Role != string(user.Role) {
		return nil, nil, ErrRoleMismatch
	}

	if user.Role == entity.UserRoleAdmin && !user.AdminApproved {
		return nil, nil, ErrAdminPending
	}

	token, expires, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, "USER_LOGIN", map[string]interface{}{
		"user_id": user.Id,
		"role":    string(user.Role),
		"time":    time.Now().Format(time.RFC3339),
	})

	redirectUrl := ClientDashboardPath
	if user.Role == entity.UserRoleAdmin {
		redirectUrl = AdminDashboardPath
	}

	return &dto.LoginResponse{
			RedirectUrl: redirectUrl,
			User:        toUserResponse(user),
		}, &AuthSession{
			Token:   token,
			Expires: expires,
		}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.issuer.Revoke(ctx, token)
}

// LogoutAll revokes every session the user holds, across devices.
func (s *authService) LogoutAll(ctx context.Context, userId uuid.UUID) error {
	if err := s.issuer.RevokeAll(ctx, userId); err != nil {
		return err
	}

	s.publishEvent(ctx, "USER_LOGOUT_ALL", map[string]interface{}{
		"user_id": userId,
	})
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}
	if user.EmailVerified != nil {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindVerificationToken(ctx, specification.ByVerificationToken{
		Identifier: req.Email,
		Token:      req.Token,
	})
	if err != nil {
		return err
	}
	if tokenEntity == nil || time.Now().After(tokenEntity.Expires) {
		return ErrInvalidToken
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	user.EmailVerified = &now
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	if err := uow.UserRepository().DeleteVerificationToken(ctx, req.Email, req.Token); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.log.Warn("auth", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toUserResponse(user *entity.User) dto.UserResponse {
	resp := dto.UserResponse{
		Id:            user.Id,
		Email:         user.Email,
		Role:          string(user.Role),
		AdminApproved: user.AdminApproved,
		EmailVerified: user.EmailVerified,
	}
	if user.Name != nil {
		resp.Name = *user.Name
	}
	if user.Image != nil {
		resp.Image = *user.Image
	}
	return resp
}
