package controller

import (
	"errors"
	"net/http"

	httpdto "github.com/vibast-solutions/ms-go-tasks/app/dto/http"
	"github.com/vibast-solutions/ms-go-tasks/app/entity"
	"github.com/vibast-solutions/ms-go-tasks/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{authService: authService}
}

func (c *UserController) Register(ctx echo.Context) error {
	req, err := httpdto.NewRegisterRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind register request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("username", req.Username).Debug("Register validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("username", req.Username).Info("Register request received")
	result, err := c.authService.Register(ctx.Request().Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("username", req.Username).Warn("Register failed: user already exists")
			return ctx.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: "user with these credentials already exists"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.WithField("username", req.Username).Warn("Register failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("username", req.Username).Error("Register failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  result.User.ID,
		"username": result.User.Username,
	}).Info("User registered")

	return ctx.JSON(http.StatusCreated, httpdto.RegisterResponse{
		UserID:   result.User.ID,
		Username: result.User.Username,
		Email:    result.User.Email,
		Message:  "registration successful, please check your email to verify your account",
	})
}

func (c *UserController) VerifyEmail(ctx echo.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "token is required"})
	}

	logrus.Info("Email verification request received")
	user, err := c.authService.VerifyEmail(ctx.Request().Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Email verification failed: invalid token")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid or expired verification token"})
		}
		if errors.Is(err, service.ErrTokenExpired) {
			logrus.Warn("Email verification failed: token expired")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "verification token has expired"})
		}
		logrus.WithError(err).Error("Email verification failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("user_id", user.ID).Info("Email verified")
	return ctx.JSON(http.StatusOK, httpdto.VerificationResponse{
		Success: true,
		Message: "Email verified successfully",
		Data:    map[string]any{"email": user.Email},
	})
}

func (c *UserController) ForgotPassword(ctx echo.Context) error {
	req, err := httpdto.NewForgotPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind forgot password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Forgot password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Password reset requested")
	err = c.authService.RequestPasswordReset(ctx.Request().Context(), req.Email)
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		logrus.WithError(err).WithField("email", req.Email).Error("Forgot password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	// Unknown emails get the same answer as known ones.
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{
		Message: "if the email exists, a reset link has been sent",
	})
}

func (c *UserController) ResetPassword(ctx echo.Context) error {
	req, err := httpdto.NewResetPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind reset password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Reset password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Reset password request received")
	err = c.authService.ResetPassword(ctx.Request().Context(), req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Reset password failed: invalid token")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid reset token"})
		}
		if errors.Is(err, service.ErrTokenExpired) {
			logrus.Warn("Reset password failed: token expired")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "reset token has expired"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.Warn("Reset password failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).Error("Reset password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Password reset successful")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "password reset successfully"})
}

func (c *UserController) Me(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Me failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	return ctx.JSON(http.StatusOK, userResponse(user))
}

func (c *UserController) UpdateSettings(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Update settings failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := httpdto.NewUpdateSettingsRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind update settings request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Update settings validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("user_id", user.ID).Info("Update settings request received")
	updated, err := c.authService.UpdateSettings(ctx.Request().Context(), user.ID, *req.IsTwoFactorEnabled)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Update settings failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id":               updated.ID,
		"is_two_factor_enabled": updated.IsTwoFactorEnabled,
	}).Info("Settings updated")
	return ctx.JSON(http.StatusOK, userResponse(updated))
}

func (c *UserController) ChangePassword(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Change password failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := httpdto.NewChangePasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind change password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Change password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("user_id", user.ID).Info("Change password request received")
	err = c.authService.ChangePassword(ctx.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) {
			logrus.WithField("user_id", user.ID).Warn("Change password failed: current password mismatch")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "current password is incorrect"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.WithField("user_id", user.ID).Warn("Change password failed: weak password")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Change password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("user_id", user.ID).Info("Password changed")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "password changed successfully"})
}

func userResponse(user *entity.User) httpdto.UserResponse {
	return httpdto.UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Username:           user.Username,
		Email:              user.Email,
		IsVerified:         user.IsVerified,
		IsTwoFactorEnabled: user.IsTwoFactorEnabled,
		Role:               user.Role,
	}
}
