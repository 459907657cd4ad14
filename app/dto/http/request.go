package http

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func NewRegisterRequestFromContext(ctx echo.Context) (*RegisterRequest, error) {
	var body RegisterRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Username) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Password) == "" {
		return errors.New("name, username, email and password are required")
	}
	return nil
}

// LoginRequest accepts both the OAuth2 password form and a JSON body.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	var body LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Password) == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

func NewRefreshTokenRequestFromContext(ctx echo.Context) (*RefreshTokenRequest, error) {
	var body RefreshTokenRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *RefreshTokenRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return errors.New("refresh_token is required")
	}
	return nil
}

type TwoFactorConfirmRequest struct {
	TwoFACode string `json:"two_fa_code" form:"two_fa_code"`
}

func NewTwoFactorConfirmRequestFromContext(ctx echo.Context) (*TwoFactorConfirmRequest, error) {
	var body TwoFactorConfirmRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *TwoFactorConfirmRequest) Validate() error {
	if strings.TrimSpace(r.TwoFACode) == "" {
		return errors.New("two_fa_code is required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

func NewForgotPasswordRequestFromContext(ctx echo.Context) (*ForgotPasswordRequest, error) {
	var body ForgotPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ForgotPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token" form:"token"`
	NewPassword string `json:"new_password" form:"new_password"`
}

func NewResetPasswordRequestFromContext(ctx echo.Context) (*ResetPasswordRequest, error) {
	var body ResetPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" || strings.TrimSpace(r.NewPassword) == "" {
		return errors.New("token and new_password are required")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

func NewChangePasswordRequestFromContext(ctx echo.Context) (*ChangePasswordRequest, error) {
	var body ChangePasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *ChangePasswordRequest) Validate() error {
	if strings.TrimSpace(r.CurrentPassword) == "" || strings.TrimSpace(r.NewPassword) == "" {
		return errors.New("current_password and new_password are required")
	}
	return nil
}

type UpdateSettingsRequest struct {
	IsTwoFactorEnabled *bool `json:"is_two_factor_enabled"`
}

func NewUpdateSettingsRequestFromContext(ctx echo.Context) (*UpdateSettingsRequest, error) {
	var body UpdateSettingsRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.IsTwoFactorEnabled == nil {
		return errors.New("is_two_factor_enabled is required")
	}
	return nil
}

type CreateTaskRequest struct {
	Task string `json:"task"`
}

func NewCreateTaskRequestFromContext(ctx echo.Context) (*CreateTaskRequest, error) {
	var body CreateTaskRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *CreateTaskRequest) Validate() error {
	task := strings.TrimSpace(r.Task)
	if len(task) < 3 || len(task) > 100 {
		return errors.New("task must be between 3 and 100 characters")
	}
	return nil
}

type UpdateTaskRequest struct {
	Task        string `json:"task"`
	IsCompleted bool   `json:"is_completed"`
}

func NewUpdateTaskRequestFromContext(ctx echo.Context) (*UpdateTaskRequest, error) {
	var body UpdateTaskRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *UpdateTaskRequest) Validate() error {
	task := strings.TrimSpace(r.Task)
	if len(task) < 3 || len(task) > 100 {
		return errors.New("task must be between 3 and 100 characters")
	}
	return nil
}
