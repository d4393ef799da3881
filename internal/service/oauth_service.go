package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"studynotes-be/internal/config"
	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrOAuthNotConfigured is returned when the provider credentials are
// absent. The client disables the login-requiring surface instead of
// failing; guests still work.
var ErrOAuthNotConfigured = errors.New("oauth provider not configured")

type IOAuthService interface {
	Configured() bool
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	cfg        *config.Config
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	logger     logger.ILogger
}

func NewOAuthService(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IOAuthService {
	var conf *oauth2.Config
	if cfg.GoogleOAuthConfigured() {
		conf = &oauth2.Config{
			ClientID:     cfg.Auth.GoogleClientID,
			ClientSecret: cfg.Auth.GoogleClientSecret,
			RedirectURL:  cfg.Auth.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
		log.Info("OAuthService", "Google OAuth initialized", map[string]interface{}{"redirect_url": conf.RedirectURL})
	} else {
		log.Warn("OAuthService", "Google OAuth credentials absent, provider disabled", nil)
	}

	return &oauthService{
		cfg:        cfg,
		uowFactory: uowFactory,
		googleConf: conf,
		logger:     log,
	}
}

func (s *oauthService) Configured() bool {
	return s.googleConf != nil
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}
	if s.googleConf == nil {
		return "", ErrOAuthNotConfigured
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}
	if s.googleConf == nil {
		return nil, ErrOAuthNotConfigured
	}

	// 1. Exchange code for token
	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	// 2. Fetch the Google profile
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 3. Find or create the account
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		avatar := googleUser.Picture
		newUser := &entity.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			PasswordHash:  nil,
			Provider:      entity.ProviderGoogle,
			Status:        entity.UserStatusActive,
			EmailVerified: true,
			AvatarURL:     &avatar,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().Create(ctx, newUser); err != nil {
			uow.Rollback()
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		user = newUser
		s.logger.Info("OAuthService", "New Google user created", map[string]interface{}{"user_id": user.Id})
	} else if googleUser.Picture != "" && (user.AvatarURL == nil || *user.AvatarURL != googleUser.Picture) {
		avatar := googleUser.Picture
		user.AvatarURL = &avatar
		user.UpdatedAt = time.Now()
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			s.logger.Warn("OAuthService", "Failed to sync avatar", map[string]interface{}{"error": err.Error()})
		}
	}

	// 4. Issue JWT
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(time.Minute * time.Duration(s.cfg.Auth.AccessTokenMinutes)).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := jwtToken.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User:        userToDTO(user),
	}, nil
}
