package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"
	"github.com/vibast-solutions/ms-go-tasks/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertTwoFactorTokenQuery        = `(?s)INSERT INTO two_factor_tokens \(token, expires_at, user_id\)\s+VALUES \(\?, \?, \?\)`
	findTwoFactorTokenQuery          = `(?s)SELECT id, token, expires_at, user_id\s+FROM two_factor_tokens WHERE token = \?`
	deleteTwoFactorTokenByIDQuery    = `DELETE FROM two_factor_tokens WHERE id = \?`
	deleteTwoFactorTokensByUserQuery = `DELETE FROM two_factor_tokens WHERE user_id = \?`

	insertConfirmationQuery         = `(?s)INSERT INTO two_factor_confirmations \(expires_at, user_id\)\s+VALUES \(\?, \?\)`
	findConfirmationsByUserQuery    = `(?s)SELECT id, expires_at, user_id\s+FROM two_factor_confirmations WHERE user_id = \?`
	deleteConfirmationsByUserQuery  = `DELETE FROM two_factor_confirmations WHERE user_id = \?`

	insertResetTokenQuery        = `(?s)INSERT INTO password_reset_tokens \(token, user_id, created_at, expires_at\)\s+VALUES \(\?, \?, \?, \?\)`
	findResetTokenQuery          = `(?s)SELECT id, token, user_id, created_at, expires_at\s+FROM password_reset_tokens WHERE token = \?`
	deleteResetTokenByIDQuery    = `DELETE FROM password_reset_tokens WHERE id = \?`
	deleteResetTokensByUserQuery = `DELETE FROM password_reset_tokens WHERE user_id = \?`

	insertVerificationTokenQuery     = `(?s)INSERT INTO email_verification_tokens \(token, user_id, created_at, expires_at\)\s+VALUES \(\?, \?, \?, \?\)`
	findVerificationTokenQuery       = `(?s)SELECT id, token, user_id, created_at, expires_at\s+FROM email_verification_tokens WHERE token = \?`
	deleteVerificationTokenByIDQuery = `DELETE FROM email_verification_tokens WHERE id = \?`
)

func newTokenMockDB(t *testing.T) (repository.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func TestTwoFactorTokenRepository(t *testing.T) {
	db, mock, cleanup := newTokenMockDB(t)
	defer cleanup()
	repo := repository.NewTwoFactorTokenRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)
	token := &entity.TwoFactorToken{Token: "123456", ExpiresAt: expiresAt, UserID: 5}

	mock.ExpectExec(insertTwoFactorTokenQuery).
		WithArgs("123456", expiresAt, uint64(5)).
		WillReturnResult(sqlmock.NewResult(11, 1))

	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token.ID != 11 {
		t.Fatalf("token.ID = %d, want 11", token.ID)
	}

	mock.ExpectQuery(findTwoFactorTokenQuery).
		WithArgs("123456").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "expires_at", "user_id"}).
			AddRow(11, "123456", expiresAt, 5))

	found, err := repo.FindByToken(ctx, "123456")
	if err != nil {
		t.Fatalf("FindByToken returned error: %v", err)
	}
	if found == nil || found.ID != 11 || found.UserID != 5 {
		t.Fatalf("unexpected token: %+v", found)
	}

	mock.ExpectQuery(findTwoFactorTokenQuery).
		WithArgs("000000").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "expires_at", "user_id"}))

	missing, err := repo.FindByToken(ctx, "000000")
	if err != nil {
		t.Fatalf("FindByToken returned error: %v", err)
	}
	if missing != nil {
		t.Fatalf("FindByToken for unknown code = %+v, want nil", missing)
	}

	mock.ExpectExec(deleteTwoFactorTokenByIDQuery).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(ctx, 11); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	mock.ExpectExec(deleteTwoFactorTokensByUserQuery).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteByUserID(ctx, 5); err != nil {
		t.Fatalf("DeleteByUserID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTwoFactorConfirmationRepository(t *testing.T) {
	db, mock, cleanup := newTokenMockDB(t)
	defer cleanup()
	repo := repository.NewTwoFactorConfirmationRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)
	confirmation := &entity.TwoFactorConfirmation{ExpiresAt: expiresAt, UserID: 5}

	mock.ExpectExec(insertConfirmationQuery).
		WithArgs(expiresAt, uint64(5)).
		WillReturnResult(sqlmock.NewResult(3, 1))

	if err := repo.Create(ctx, confirmation); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if confirmation.ID != 3 {
		t.Fatalf("confirmation.ID = %d, want 3", confirmation.ID)
	}

	mock.ExpectQuery(findConfirmationsByUserQuery).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id"}).
			AddRow(3, expiresAt, 5).
			AddRow(4, expiresAt.Add(-time.Hour), 5))

	confirmations, err := repo.FindByUserID(ctx, 5)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	if len(confirmations) != 2 {
		t.Fatalf("FindByUserID returned %d rows, want 2", len(confirmations))
	}

	mock.ExpectQuery(findConfirmationsByUserQuery).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "user_id"}))

	empty, err := repo.FindByUserID(ctx, 9)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("FindByUserID for user without rows returned %d rows", len(empty))
	}

	mock.ExpectExec(deleteConfirmationsByUserQuery).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteByUserID(ctx, 5); err != nil {
		t.Fatalf("DeleteByUserID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPasswordResetTokenRepository(t *testing.T) {
	db, mock, cleanup := newTokenMockDB(t)
	defer cleanup()
	repo := repository.NewPasswordResetTokenRepository(db)
	ctx := context.Background()

	now := time.Now()
	token := &entity.PasswordResetToken{
		Token:     "reset-token",
		UserID:    5,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	mock.ExpectExec(insertResetTokenQuery).
		WithArgs("reset-token", uint64(5), now, token.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(21, 1))

	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token.ID != 21 {
		t.Fatalf("token.ID = %d, want 21", token.ID)
	}

	mock.ExpectQuery(findResetTokenQuery).
		WithArgs("reset-token").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "created_at", "expires_at"}).
			AddRow(21, "reset-token", 5, now, token.ExpiresAt))

	found, err := repo.FindByToken(ctx, "reset-token")
	if err != nil {
		t.Fatalf("FindByToken returned error: %v", err)
	}
	if found == nil || found.ID != 21 || found.UserID != 5 {
		t.Fatalf("unexpected token: %+v", found)
	}

	mock.ExpectQuery(findResetTokenQuery).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "created_at", "expires_at"}))

	missing, err := repo.FindByToken(ctx, "unknown")
	if err != nil {
		t.Fatalf("FindByToken returned error: %v", err)
	}
	if missing != nil {
		t.Fatalf("FindByToken for unknown token = %+v, want nil", missing)
	}

	mock.ExpectExec(deleteResetTokenByIDQuery).
		WithArgs(uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(ctx, 21); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	mock.ExpectExec(deleteResetTokensByUserQuery).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByUserID(ctx, 5); err != nil {
		t.Fatalf("DeleteByUserID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerificationTokenRepository(t *testing.T) {
	db, mock, cleanup := newTokenMockDB(t)
	defer cleanup()
	repo := repository.NewVerificationTokenRepository(db)
	ctx := context.Background()

	now := time.Now()
	token := &entity.VerificationToken{
		Token:     "verify-token",
		UserID:    8,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	mock.ExpectExec(insertVerificationTokenQuery).
		WithArgs("verify-token", uint64(8), now, token.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(4, 1))

	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token.ID != 4 {
		t.Fatalf("token.ID = %d, want 4", token.ID)
	}

	mock.ExpectQuery(findVerificationTokenQuery).
		WithArgs("verify-token").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "created_at", "expires_at"}).
			AddRow(4, "verify-token", 8, now, token.ExpiresAt))

	found, err := repo.FindByToken(ctx, "verify-token")
	if err != nil {
		t.Fatalf("FindByToken returned error: %v", err)
	}
	if found == nil || found.UserID != 8 {
		t.Fatalf("unexpected token: %+v", found)
	}

	mock.ExpectExec(deleteVerificationTokenByIDQuery).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(ctx, 4); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
