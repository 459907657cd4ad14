package entity

import "time"

type User struct {
	ID                 uint64
	Name               string
	Username           string
	Email              string
	PasswordHash       string
	IsVerified         bool
	IsTwoFactorEnabled bool
	Role               string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Task struct {
	ID          uint64
	Task        string
	IsCompleted bool
	UserID      uint64
}
