package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"
)

type TwoFactorTokenRepository struct {
	db DB
}

func NewTwoFactorTokenRepository(db DB) *TwoFactorTokenRepository {
	return &TwoFactorTokenRepository{db: db}
}

func (r *TwoFactorTokenRepository) Create(ctx context.Context, token *entity.TwoFactorToken) error {
	query := `
		INSERT INTO two_factor_tokens (token, expires_at, user_id)
		VALUES (?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, token.Token, token.ExpiresAt, token.UserID)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *TwoFactorTokenRepository) FindByToken(ctx context.Context, token string) (*entity.TwoFactorToken, error) {
	query := `
		SELECT id, token, expires_at, user_id
		FROM two_factor_tokens WHERE token = ?
	`
	tft := &entity.TwoFactorToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&tft.ID,
		&tft.Token,
		&tft.ExpiresAt,
		&tft.UserID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tft, nil
}

func (r *TwoFactorTokenRepository) DeleteByID(ctx context.Context, id uint64) error {
	query := `DELETE FROM two_factor_tokens WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *TwoFactorTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM two_factor_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

type TwoFactorConfirmationRepository struct {
	db DB
}

func NewTwoFactorConfirmationRepository(db DB) *TwoFactorConfirmationRepository {
	return &TwoFactorConfirmationRepository{db: db}
}

func (r *TwoFactorConfirmationRepository) Create(ctx context.Context, confirmation *entity.TwoFactorConfirmation) error {
	query := `
		INSERT INTO two_factor_confirmations (expires_at, user_id)
		VALUES (?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, confirmation.ExpiresAt, confirmation.UserID)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	confirmation.ID = uint64(id)
	return nil
}

func (r *TwoFactorConfirmationRepository) FindByUserID(ctx context.Context, userID uint64) ([]*entity.TwoFactorConfirmation, error) {
	query := `
		SELECT id, expires_at, user_id
		FROM two_factor_confirmations WHERE user_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var confirmations []*entity.TwoFactorConfirmation
	for rows.Next() {
		confirmation := &entity.TwoFactorConfirmation{}
		if err := rows.Scan(&confirmation.ID, &confirmation.ExpiresAt, &confirmation.UserID); err != nil {
			return nil, err
		}
		confirmations = append(confirmations, confirmation)
	}
	return confirmations, rows.Err()
}

func (r *TwoFactorConfirmationRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM two_factor_confirmations WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

type PasswordResetTokenRepository struct {
	db DB
}

func NewPasswordResetTokenRepository(db DB) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, token.Token, token.UserID, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *PasswordResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	query := `
		SELECT id, token, user_id, created_at, expires_at
		FROM password_reset_tokens WHERE token = ?
	`
	prt := &entity.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&prt.ID,
		&prt.Token,
		&prt.UserID,
		&prt.CreatedAt,
		&prt.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prt, nil
}

func (r *PasswordResetTokenRepository) DeleteByID(ctx context.Context, id uint64) error {
	query := `DELETE FROM password_reset_tokens WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PasswordResetTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

type VerificationTokenRepository struct {
	db DB
}

func NewVerificationTokenRepository(db DB) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, token *entity.VerificationToken) error {
	query := `
		INSERT INTO email_verification_tokens (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, token.Token, token.UserID, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *VerificationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	query := `
		SELECT id, token, user_id, created_at, expires_at
		FROM email_verification_tokens WHERE token = ?
	`
	vt := &entity.VerificationToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&vt.ID,
		&vt.Token,
		&vt.UserID,
		&vt.CreatedAt,
		&vt.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vt, nil
}

func (r *VerificationTokenRepository) DeleteByID(ctx context.Context, id uint64) error {
	query := `DELETE FROM email_verification_tokens WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *VerificationTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM email_verification_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
