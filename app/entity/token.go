package entity

import "time"

// TwoFactorToken is the emailed 6-digit login challenge. A row is deleted
// once the code is confirmed or found expired.
type TwoFactorToken struct {
	ID        uint64
	Token     string
	ExpiresAt time.Time
	UserID    uint64
}

// TwoFactorConfirmation proves a challenge code was verified. It is consumed
// by the next successful login.
type TwoFactorConfirmation struct {
	ID        uint64
	ExpiresAt time.Time
	UserID    uint64
}

type PasswordResetToken struct {
	ID        uint64
	Token     string
	UserID    uint64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type VerificationToken struct {
	ID        uint64
	Token     string
	UserID    uint64
	CreatedAt time.Time
	ExpiresAt time.Time
}
