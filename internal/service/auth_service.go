package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"studynotes-be/internal/config"
	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/pkg/mailer"
	"studynotes-be/internal/repository/memory"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"

	"studynotes-be/pkg/events"
	pktNats "studynotes-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GuestLogin(ctx context.Context, req *dto.GuestLoginRequest) (*dto.GuestLoginResponse, error)
	Session(ctx context.Context, userId string) (*dto.SessionResponse, error)
}

type authService struct {
	cfg            *config.Config
	uowFactory     unitofwork.RepositoryFactory
	guests         *memory.GuestRepository
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewAuthService(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	guests *memory.GuestRepository,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IAuthService {
	return &authService{
		cfg:            cfg,
		uowFactory:     uowFactory,
		guests:         guests,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	// 1. Check for existing user
	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	// 3. Create user entity
	user := &entity.User{
		Id:            uuid.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Provider:      entity.ProviderEmail,
		Status:        entity.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// 4. Save user + OTP in one transaction
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		Purpose:   entity.TokenPurposeVerifyEmail,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 5. Send the OTP out of band
	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	if user.Status == entity.UserStatusActive {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.ByUserID{UserID: user.Id},
		specification.ByToken{Token: req.Token},
		specification.ByPurpose{Purpose: string(entity.TokenPurposeVerifyEmail)},
	)
	if err != nil || tokenEntity == nil {
		return errors.New("invalid otp code")
	}

	if time.Now().After(tokenEntity.ExpiresAt) {
		return errors.New("otp code expired")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}

	_ = uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id)

	return uow.Commit()
}

// ForgotPassword mails a reset OTP. The response is identical whether or
// not the address has an account, so the endpoint cannot be used to
// enumerate registered emails.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil
	}

	// OAuth-only accounts have no password to reset
	if user.PasswordHash == nil {
		return nil
	}

	otpCode, err := generateOTP()
	if err != nil {
		return err
	}

	resetToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		Purpose:   entity.TokenPurposeResetPassword,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendPasswordReset(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending password reset email: %v\n", emailErr)
		}
	}()

	return nil
}

// ResetPassword rotates the password against a mailed OTP and revokes
// every live refresh token so stolen sessions die with the old password.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return errors.New("invalid otp code")
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.ByUserID{UserID: user.Id},
		specification.ByToken{Token: req.Token},
		specification.ByPurpose{Purpose: string(entity.TokenPurposeResetPassword)},
	)
	if err != nil || tokenEntity == nil {
		return errors.New("invalid otp code")
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return errors.New("otp code expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr
	user.UpdatedAt = time.Now()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	_ = uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id)
	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, user.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	// 1. Look up the account
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}

	// 2. OAuth-only accounts have no password to check
	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}

	// 3. Unverified accounts cannot log in
	if user.Status == entity.UserStatusPending || !user.EmailVerified {
		return nil, errors.New("email not verified. please check your inbox for the otp code")
	}

	// 4. Compare passwords
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	// 5. Issue tokens
	signedToken, err := s.signAccessToken(user.Id.String())
	if err != nil {
		return nil, err
	}

	var rawRefreshToken string
	if req.RememberMe {
		rawRefreshToken = uuid.New().String()
		refreshTokenEntity := &entity.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: hashToken(rawRefreshToken),
			ExpiresAt: time.Now().Add(time.Hour * 24 * time.Duration(s.cfg.Auth.RefreshTokenDays)),
			Revoked:   false,
			CreatedAt: time.Now(),
			IpAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := uow.UserRepository().CreateRefreshToken(ctx, refreshTokenEntity); err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
	}

	// 6. Publish event
	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		User:         userToDTO(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tokenEntity, err := uow.UserRepository().FindRefreshToken(ctx,
		specification.ByTokenHash{Hash: hashToken(req.RefreshToken)},
		specification.LiveTokens{},
	)
	if err != nil || tokenEntity == nil {
		return nil, errors.New("invalid refresh token")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: tokenEntity.UserId})
	if err != nil || user == nil {
		return nil, errors.New("invalid refresh token")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	signedToken, err := s.signAccessToken(user.Id.String())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: req.RefreshToken,
		User:         userToDTO(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}

// GuestLogin creates a fully local anonymous identity. The id carries a
// coarse timestamp suffix, nothing touches the user table, and the
// session works everywhere a registered one does.
func (s *authService) GuestLogin(ctx context.Context, req *dto.GuestLoginRequest) (*dto.GuestLoginResponse, error) {
	name := req.Name
	if name == "" {
		name = "Guest"
	}

	guest := &entity.Guest{
		Id:        fmt.Sprintf("guest-%d", time.Now().Unix()%1000000),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.guests.Save(guest)

	signedToken, err := s.signAccessToken(guest.Id)
	if err != nil {
		return nil, err
	}

	return &dto.GuestLoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       guest.Id,
			FullName: guest.Name,
			Provider: string(entity.ProviderAnonymous),
		},
	}, nil
}

// Session resolves the current identity. Guest sessions are checked
// first and suppress the user-table lookup entirely.
func (s *authService) Session(ctx context.Context, userId string) (*dto.SessionResponse, error) {
	authAvailable := s.cfg.GoogleOAuthConfigured() || s.cfg.Database.Connection != ""

	if guest, found := s.guests.Get(userId); found {
		return &dto.SessionResponse{
			User: &dto.UserDTO{
				Id:       guest.Id,
				FullName: guest.Name,
				Provider: string(entity.ProviderAnonymous),
			},
			AuthAvailable: authAvailable,
		}, nil
	}

	parsed, err := uuid.Parse(userId)
	if err != nil {
		return &dto.SessionResponse{User: nil, AuthAvailable: authAvailable}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: parsed})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.SessionResponse{User: nil, AuthAvailable: authAvailable}, nil
	}

	userDTO := userToDTO(user)
	return &dto.SessionResponse{User: &userDTO, AuthAvailable: authAvailable}, nil
}

func (s *authService) signAccessToken(userId string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId,
		"exp":     time.Now().Add(time.Minute * time.Duration(s.cfg.Auth.AccessTokenMinutes)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := s.cfg.Auth.JWTSecret
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func userToDTO(user *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:       user.Id.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Provider: string(user.Provider),
		Avatar:   user.AvatarURL,
	}
}
