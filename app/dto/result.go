package dto

import "github.com/vibast-solutions/ms-go-tasks/app/entity"

type RegisterResult struct {
	User              *entity.User
	VerificationToken string
}

// LoginResult carries the outcome of one login attempt. Success without
// tokens means the attempt halted mid state machine (challenge sent or
// verification pending); the message tells the client what to do next.
type LoginResult struct {
	Success      bool
	Message      string
	AccessToken  string
	TokenType    string
	RefreshToken string
}

type TokenPair struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
}
