package http

type RegisterResponse struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// LoginResponse mirrors the login state machine: tokens are present only
// when the attempt reached issuance.
type LoginResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	AccessToken  *string `json:"access_token,omitempty"`
	TokenType    *string `json:"token_type,omitempty"`
	RefreshToken *string `json:"refresh_token,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

type TwoFactorConfirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerificationResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	IsVerified         bool   `json:"is_verified"`
	IsTwoFactorEnabled bool   `json:"is_two_factor_enabled"`
	Role               string `json:"role"`
}

type TaskResponse struct {
	ID          uint64 `json:"id"`
	Task        string `json:"task"`
	IsCompleted bool   `json:"is_completed"`
	UserID      uint64 `json:"user_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
