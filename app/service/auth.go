package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-tasks/app/dto"
	"github.com/vibast-solutions/ms-go-tasks/app/entity"
	"github.com/vibast-solutions/ms-go-tasks/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrPasswordMismatch     = errors.New("current password is incorrect")
	ErrWeakPassword         = errors.New("password does not meet policy requirements")
	ErrInvalidTwoFactorCode = errors.New("invalid 2FA code")
	ErrTwoFactorCodeExpired = errors.New("2FA code has expired")
)

const (
	RoleUser = "user"

	tokenTypeBearer = "bearer"
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
}

type verificationTokenRepository interface {
	Create(ctx context.Context, token *entity.VerificationToken) error
	FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error)
	DeleteByID(ctx context.Context, id uint64) error
	DeleteByUserID(ctx context.Context, userID uint64) error
}

type AuthService interface {
	Register(ctx context.Context, name, username, email, password string) (*dto.RegisterResult, error)
	VerifyEmail(ctx context.Context, token string) (*entity.User, error)
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*dto.LoginResult, error)
	ConfirmTwoFactor(ctx context.Context, code string) error
	Refresh(ctx context.Context, oldRefreshToken string) (*dto.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*entity.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error
	UpdateSettings(ctx context.Context, userID uint64, isTwoFactorEnabled bool) (*entity.User, error)
}

type authService struct {
	userRepo         userRepository
	verificationRepo verificationTokenRepository
	twoFactor        *TwoFactorService
	reset            *PasswordResetService
	codec            *TokenCodec
	mailer           Mailer
	cfg              *config.Config
}

func NewAuthService(
	userRepo userRepository,
	verificationRepo verificationTokenRepository,
	twoFactor *TwoFactorService,
	reset *PasswordResetService,
	codec *TokenCodec,
	mailer Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		twoFactor:        twoFactor,
		reset:            reset,
		codec:            codec,
		mailer:           mailer,
		cfg:              cfg,
	}
}

func (s *authService) Register(ctx context.Context, name, username, email, password string) (*dto.RegisterResult, error) {
	email = NormalizeEmail(email)

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if err := s.cfg.PasswordPolicy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	verificationToken := &entity.VerificationToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.VerificationTokenTTL),
	}
	if err := s.verificationRepo.Create(ctx, verificationToken); err != nil {
		return nil, err
	}

	subject, body := verificationEmail(s.cfg.FrontendURL, verificationToken.Token)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Failed to send verification email")
	}

	return &dto.RegisterResult{
		User:              user,
		VerificationToken: verificationToken.Token,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	verification, err := s.verificationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if verification == nil {
		return nil, ErrInvalidToken
	}

	if isExpired(verification.ExpiresAt, time.Now()) {
		if err := s.verificationRepo.DeleteByID(ctx, verification.ID); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, verification.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.verificationRepo.DeleteByID(ctx, verification.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate resolves a username/password pair to a user. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login runs the full state machine for one attempt: credential check, email
// verification gate, two-factor gate, token issuance.
func (s *authService) Login(ctx context.Context, username, password string) (*dto.LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return &dto.LoginResult{
			Success: false,
			Message: "Please verify your email first",
		}, nil
	}

	if user.IsTwoFactorEnabled {
		status, err := s.twoFactor.ConfirmationStatus(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		switch status {
		case ConfirmationNone:
			if err := s.twoFactor.IssueChallenge(ctx, user); err != nil {
				return nil, err
			}
			return &dto.LoginResult{
				Success: true,
				Message: "2FA code sent to your email",
			}, nil

		case ConfirmationExpired:
			if err := s.twoFactor.ConsumeConfirmations(ctx, user.ID); err != nil {
				return nil, err
			}
			return &dto.LoginResult{
				Success: false,
				Message: "2FA code confirmation has expired, please login again",
			}, nil

		case ConfirmationLive:
			if err := s.twoFactor.ConsumeConfirmations(ctx, user.ID); err != nil {
				return nil, err
			}
		}
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		Success:      true,
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) ConfirmTwoFactor(ctx context.Context, code string) error {
	return s.twoFactor.Confirm(ctx, code)
}

// Refresh exchanges an unexpired refresh token for a fresh pair. Any decode
// or lookup failure collapses into ErrInvalidCredentials.
func (s *authService) Refresh(ctx context.Context, oldRefreshToken string) (*dto.TokenPair, error) {
	claims, err := s.codec.Decode(oldRefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Refresh tokens carry the email as subject.
	user, err := s.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(user)
}

// CurrentUser resolves a bearer access token to its user. This is the
// dependency behind every protected route.
func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Access tokens carry the username as subject.
	user, err := s.userRepo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := s.reset.IssueResetToken(ctx, user)
	if err != nil {
		return err
	}

	subject, body := passwordResetEmail(s.cfg.FrontendURL, token.Token)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("Failed to send password reset email")
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.cfg.PasswordPolicy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	// The token is consumed before the password write; a storage failure
	// below leaves the user without a usable reset token.
	user, err := s.reset.VerifyAndConsume(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, passwordHash)
}

func (s *authService) ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	if err := s.cfg.PasswordPolicy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, passwordHash)
}

func (s *authService) UpdateSettings(ctx context.Context, userID uint64, isTwoFactorEnabled bool) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.IsTwoFactorEnabled = isTwoFactorEnabled
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) issueTokenPair(user *entity.User) (*dto.TokenPair, error) {
	accessToken, err := s.codec.IssueAccessToken(user.Username, 0)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.codec.IssueRefreshToken(user.Email, 0)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		TokenType:    tokenTypeBearer,
		RefreshToken: refreshToken,
	}, nil
}
