package controller

import (
	"errors"
	"net/http"

	httpdto "github.com/vibast-solutions/ms-go-tasks/app/dto/http"
	"github.com/vibast-solutions/ms-go-tasks/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login handles POST /token. Soft halts of the login state machine
// (unverified email, challenge sent, expired confirmation) come back as 200
// with success=false or without tokens; only bad credentials produce a 401.
func (c *AuthController) Login(ctx echo.Context) error {
	req, err := httpdto.NewLoginRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("username", req.Username).Debug("Login validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("username", req.Username).Info("Login request received")
	result, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("username", req.Username).Warn("Login failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid username or password"})
		}
		logrus.WithError(err).WithField("username", req.Username).Error("Login failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	response := httpdto.LoginResponse{
		Success: result.Success,
		Message: result.Message,
	}
	if result.AccessToken != "" {
		response.AccessToken = &result.AccessToken
		response.TokenType = &result.TokenType
		response.RefreshToken = &result.RefreshToken
	}

	logrus.WithFields(logrus.Fields{
		"username": req.Username,
		"success":  result.Success,
	}).Info("Login attempt completed")
	return ctx.JSON(http.StatusOK, response)
}

// RefreshToken handles POST /token/refresh.
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	req, err := httpdto.NewRefreshTokenRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind refresh token request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Refresh token validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Refresh token request received")
	pair, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.Warn("Refresh token failed: invalid or expired token")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid credentials"})
		}
		logrus.WithError(err).Error("Refresh token failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Refresh token successful")
	return ctx.JSON(http.StatusOK, httpdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		RefreshToken: pair.RefreshToken,
	})
}

// ConfirmTwoFactor handles POST /two-fa-confirm.
func (c *AuthController) ConfirmTwoFactor(ctx echo.Context) error {
	req, err := httpdto.NewTwoFactorConfirmRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind two-factor confirm request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Two-factor confirm validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.Info("Two-factor confirm request received")
	err = c.authService.ConfirmTwoFactor(ctx.Request().Context(), req.TwoFACode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTwoFactorCode) {
			logrus.Warn("Two-factor confirm failed: unknown code")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "invalid 2FA code"})
		}
		if errors.Is(err, service.ErrTwoFactorCodeExpired) {
			logrus.Warn("Two-factor confirm failed: code expired")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "2FA code has expired"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.Warn("Two-factor confirm failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).Error("Two-factor confirm failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Two-factor code confirmed")
	return ctx.JSON(http.StatusOK, httpdto.TwoFactorConfirmResponse{
		Success: true,
		Message: "2FA verified successfully",
	})
}
