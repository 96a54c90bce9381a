package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"auth-chat-be/internal/config"
	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/pkg/session"
	"auth-chat-be/internal/repository/memory"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"auth-chat-be/pkg/events"
	pktNats "auth-chat-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider, state, code string) (*dto.LoginResponse, *AuthSession, error)
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	issuer         session.Issuer
	states         *memory.StateRepository
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
	configs        map[string]*oauth2.Config
	httpClient     *http.Client
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer session.Issuer,
	states *memory.StateRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	cfg config.OAuthConfig,
) IOAuthService {
	configs := map[string]*oauth2.Config{
		"google": {
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		"github": {
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}

	return &oauthService{
		uowFactory:     uowFactory,
		issuer:         issuer,
		states:         states,
		eventPublisher: eventPublisher,
		log:            log,
		configs:        configs,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

// profile is the provider-agnostic shape both userinfo endpoints map to.
type oauthProfile struct {
	ProviderAccountId string
	Email             string
	Name              string
	Picture           string
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return "", ErrInvalidProvider
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	s.states.Save(state, provider)

	return conf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, state, code string) (*dto.LoginResponse, *AuthSession, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return nil, nil, ErrInvalidProvider
	}

	issuedFor, ok := s.states.Consume(state)
	if !ok || issuedFor != provider {
		return nil, nil, ErrInvalidState
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("code exchange failed: %w", err)
	}

	var profile *oauthProfile
	switch provider {
	case "google":
		profile, err = s.fetchGoogleProfile(ctx, token.AccessToken)
	case "github":
		profile, err = s.fetchGitHubProfile(ctx, token.AccessToken)
	}
	if err != nil {
		return nil, nil, err
	}

	user, err := s.upsertUser(ctx, provider, profile, token)
	if err != nil {
		return nil, nil, err
	}

	sessionToken, expires, err := s.issuer.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if s.eventPublisher != nil {
		event := events.NewEvent("USER_LOGIN", map[string]interface{}{
			"user_id":  user.Id,
			"role":     string(user.Role),
			"provider": provider,
			"time":     time.Now().Format(time.RFC3339),
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.log.Warn("oauth", "failed to publish event", map[string]interface{}{"error": err.Error()})
		}
	}

	redirectUrl := ClientDashboardPath
	if user.Role == entity.UserRoleAdmin {
		redirectUrl = AdminDashboardPath
	}

	return &dto.LoginResponse{
			RedirectUrl: redirectUrl,
			User:        toUserResponse(user),
		}, &AuthSession{
			Token:   sessionToken,
			Expires: expires,
		}, nil
}

// upsertUser links the provider account to an existing user by account id
// first, then by email, creating a verified user when neither matches.
func (s *oauthService) upsertUser(ctx context.Context, provider string, profile *oauthProfile, token *oauth2.Token) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var user *entity.User

	account, err := uow.UserRepository().FindAccount(ctx, specification.ByProviderAccount{
		Provider:          provider,
		ProviderAccountId: profile.ProviderAccountId,
	})
	if err != nil {
		return nil, err
	}
	if account != nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByID{ID: account.UserId})
		if err != nil {
			return nil, err
		}
	}
	if user == nil && profile.Email != "" {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: profile.Email})
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	if user == nil {
		name := profile.Name
		image := profile.Picture
		user = &entity.User{
			Id:            uuid.New(),
			Name:          &name,
			Email:         profile.Email,
			EmailVerified: &now,
			Role:          entity.UserRoleClient,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if image != "" {
			user.Image = &image
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
	} else if user.EmailVerified == nil {
		// The provider vouched for the address.
		user.EmailVerified = &now
		user.UpdatedAt = now
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	accountEntity := &entity.Account{
		UserId:            user.Id,
		Type:              "oauth",
		Provider:          provider,
		ProviderAccountId: profile.ProviderAccountId,
		AccessToken:       strPtr(token.AccessToken),
		TokenType:         strPtr(token.TokenType),
	}
	if token.RefreshToken != "" {
		accountEntity.RefreshToken = strPtr(token.RefreshToken)
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.Unix()
		accountEntity.ExpiresAt = &exp
	}
	if err := uow.UserRepository().SaveAccount(ctx, accountEntity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *oauthService) fetchGoogleProfile(ctx context.Context, accessToken string) (*oauthProfile, error) {
	body, err := s.getJSON(ctx, "https://www.googleapis.com/oauth2/v2/userinfo", accessToken)
	if err != nil {
		return nil, err
	}

	var googleUser struct {
		Id      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &googleUser); err != nil {
		return nil, fmt.Errorf("parse google userinfo: %w", err)
	}

	return &oauthProfile{
		ProviderAccountId: googleUser.Id,
		Email:             googleUser.Email,
		Name:              googleUser.Name,
		Picture:           googleUser.Picture,
	}, nil
}

func (s *oauthService) fetchGitHubProfile(ctx context.Context, accessToken string) (*oauthProfile, error) {
	body, err := s.getJSON(ctx, "https://api.github.com/user", accessToken)
	if err != nil {
		return nil, err
	}

	var githubUser struct {
		Id        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &githubUser); err != nil {
		return nil, fmt.Errorf("parse github user: %w", err)
	}

	email := githubUser.Email
	if email == "" {
		// Private emails require the dedicated endpoint.
		if primary, err := s.fetchGitHubPrimaryEmail(ctx, accessToken); err == nil {
			email = primary
		}
	}

	name := githubUser.Name
	if name == "" {
		name = githubUser.Login
	}

	return &oauthProfile{
		ProviderAccountId: fmt.Sprintf("%d", githubUser.Id),
		Email:             email,
		Name:              name,
		Picture:           githubUser.AvatarURL,
	}, nil
}

func (s *oauthService) fetchGitHubPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	body, err := s.getJSON(ctx, "https://api.github.com/user/emails", accessToken)
	if err != nil {
		return "", err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", fmt.Errorf("parse github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("no verified primary email")
}

func (s *oauthService) getJSON(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	return body, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
