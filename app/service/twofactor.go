package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"
	"github.com/vibast-solutions/ms-go-tasks/app/repository"
	"github.com/vibast-solutions/ms-go-tasks/config"

	"github.com/sirupsen/logrus"
)

// ConfirmationStatus classifies a user's pending two-factor confirmations
// for the login state machine.
type ConfirmationStatus int

const (
	// ConfirmationNone: no confirmation rows exist; a fresh challenge must
	// be issued.
	ConfirmationNone ConfirmationStatus = iota
	// ConfirmationLive: at least one unexpired confirmation exists; login
	// may proceed to token issuance after consuming it.
	ConfirmationLive
	// ConfirmationExpired: confirmations exist but all are past expiry.
	ConfirmationExpired
)

type twoFactorTokenRepository interface {
	Create(ctx context.Context, token *entity.TwoFactorToken) error
	FindByToken(ctx context.Context, token string) (*entity.TwoFactorToken, error)
	DeleteByID(ctx context.Context, id uint64) error
	DeleteByUserID(ctx context.Context, userID uint64) error
}

type twoFactorConfirmationRepository interface {
	Create(ctx context.Context, confirmation *entity.TwoFactorConfirmation) error
	FindByUserID(ctx context.Context, userID uint64) ([]*entity.TwoFactorConfirmation, error)
	DeleteByUserID(ctx context.Context, userID uint64) error
}

type twoFactorUserRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
}

// TwoFactorService owns the challenge/confirmation lifecycle: short numeric
// codes delivered by email, and the short-lived confirmation rows that a
// later login consumes.
type TwoFactorService struct {
	db               *sql.DB
	userRepo         twoFactorUserRepository
	tokenRepo        twoFactorTokenRepository
	confirmationRepo twoFactorConfirmationRepository
	mailer           Mailer
	cfg              *config.Config
}

func NewTwoFactorService(
	db *sql.DB,
	userRepo twoFactorUserRepository,
	tokenRepo twoFactorTokenRepository,
	confirmationRepo twoFactorConfirmationRepository,
	mailer Mailer,
	cfg *config.Config,
) *TwoFactorService {
	return &TwoFactorService{
		db:               db,
		userRepo:         userRepo,
		tokenRepo:        tokenRepo,
		confirmationRepo: confirmationRepo,
		mailer:           mailer,
		cfg:              cfg,
	}
}

// IssueChallenge purges any stale codes for the user, persists a fresh
// 6-digit code and emails it. Email delivery is best-effort; the persisted
// code is not rolled back when delivery fails.
func (s *TwoFactorService) IssueChallenge(ctx context.Context, user *entity.User) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	code, err := generateTwoFactorCode()
	if err != nil {
		return err
	}

	token := &entity.TwoFactorToken{
		Token:     code,
		ExpiresAt: time.Now().Add(s.cfg.TwoFactorCodeTTL),
		UserID:    user.ID,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	subject, body := twoFactorEmail(code)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send two-factor code email")
	}

	return nil
}

// Confirm exchanges a submitted code for a confirmation row. The consumed
// code is deleted and the confirmation inserted in one transaction.
func (s *TwoFactorService) Confirm(ctx context.Context, code string) error {
	token, err := s.tokenRepo.FindByToken(ctx, code)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrInvalidTwoFactorCode
	}

	if isExpired(token.ExpiresAt, time.Now()) {
		if err := s.tokenRepo.DeleteByID(ctx, token.ID); err != nil {
			return err
		}
		return ErrTwoFactorCodeExpired
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txConfirmationRepo := repository.NewTwoFactorConfirmationRepository(tx)
	confirmation := &entity.TwoFactorConfirmation{
		ExpiresAt: time.Now().Add(s.cfg.TwoFactorConfirmationTTL),
		UserID:    user.ID,
	}
	if err := txConfirmationRepo.Create(ctx, confirmation); err != nil {
		return err
	}

	txTokenRepo := repository.NewTwoFactorTokenRepository(tx)
	if err := txTokenRepo.DeleteByID(ctx, token.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// ConfirmationStatus inspects the user's confirmation rows without mutating
// them.
func (s *TwoFactorService) ConfirmationStatus(ctx context.Context, userID uint64) (ConfirmationStatus, error) {
	confirmations, err := s.confirmationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return ConfirmationNone, err
	}
	if len(confirmations) == 0 {
		return ConfirmationNone, nil
	}

	now := time.Now()
	for _, confirmation := range confirmations {
		if !isExpired(confirmation.ExpiresAt, now) {
			return ConfirmationLive, nil
		}
	}
	return ConfirmationExpired, nil
}

// ConsumeConfirmations deletes every confirmation row for the user. Used
// both to consume a live confirmation on login and to clean up expired ones.
func (s *TwoFactorService) ConsumeConfirmations(ctx context.Context, userID uint64) error {
	return s.confirmationRepo.DeleteByUserID(ctx, userID)
}

// isExpired treats a row exactly at its expiry instant as expired.
func isExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

// generateTwoFactorCode draws a uniform 6-digit code, leading zeros
// preserved.
func generateTwoFactorCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
