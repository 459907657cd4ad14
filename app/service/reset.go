package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"
	"github.com/vibast-solutions/ms-go-tasks/config"
)

type passwordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id uint64) error
	DeleteByUserID(ctx context.Context, userID uint64) error
}

type resetUserRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
}

// PasswordResetService owns the single-use reset-token lifecycle. At most one
// live token exists per user: issuing a new one deletes all prior ones.
type PasswordResetService struct {
	userRepo  resetUserRepository
	tokenRepo passwordResetTokenRepository
	cfg       *config.Config
}

func NewPasswordResetService(
	userRepo resetUserRepository,
	tokenRepo passwordResetTokenRepository,
	cfg *config.Config,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

// IssueResetToken invalidates all prior reset tokens for the user and
// persists a fresh high-entropy one.
func (s *PasswordResetService) IssueResetToken(ctx context.Context, user *entity.User) (*entity.PasswordResetToken, error) {
	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	raw, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &entity.PasswordResetToken{
		Token:     raw,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.ResetTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// VerifyAndConsume resolves a token string to its owning user and deletes the
// row. The row is also deleted when it turns out expired. Consumption happens
// before the caller writes the new password; a storage failure afterwards
// leaves the user without a usable token.
func (s *PasswordResetService) VerifyAndConsume(ctx context.Context, raw string) (*entity.User, error) {
	token, err := s.tokenRepo.FindByToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrInvalidToken
	}

	if isExpired(token.ExpiresAt, time.Now()) {
		if err := s.tokenRepo.DeleteByID(ctx, token.ID); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	if err := s.tokenRepo.DeleteByID(ctx, token.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// generateResetToken returns a URL-safe token carrying 32 bytes of entropy.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
