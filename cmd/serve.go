package cmd

import (
	"database/sql"
	"fmt"
	"net"

	"github.com/vibast-solutions/ms-go-tasks/app/controller"
	"github.com/vibast-solutions/ms-go-tasks/app/middleware"
	"github.com/vibast-solutions/ms-go-tasks/app/repository"
	"github.com/vibast-solutions/ms-go-tasks/app/service"
	"github.com/vibast-solutions/ms-go-tasks/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	authService := newAuthService(db, cfg)
	taskRepo := repository.NewTaskRepository(db)

	startHTTPServer(cfg, authService, taskRepo)
}

func newAuthService(db *sql.DB, cfg *config.Config) service.AuthService {
	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	twoFactorTokenRepo := repository.NewTwoFactorTokenRepository(db)
	confirmationRepo := repository.NewTwoFactorConfirmationRepository(db)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(db)

	mailer := service.NewSMTPMailer(cfg)
	codec := service.NewTokenCodec(cfg)
	twoFactor := service.NewTwoFactorService(db, userRepo, twoFactorTokenRepo, confirmationRepo, mailer, cfg)
	reset := service.NewPasswordResetService(userRepo, resetTokenRepo, cfg)

	return service.NewAuthService(userRepo, verificationRepo, twoFactor, reset, codec, mailer, cfg)
}

func startHTTPServer(cfg *config.Config, authService service.AuthService, taskRepo *repository.TaskRepository) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService)
	taskController := controller.NewTaskController(taskRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	e.POST("/token", authController.Login)
	e.POST("/token/refresh", authController.RefreshToken)
	e.POST("/two-fa-confirm", authController.ConfirmTwoFactor)

	user := e.Group("/user")
	user.POST("/register", userController.Register)
	user.GET("/verify/:token", userController.VerifyEmail)
	user.POST("/forgot-password", userController.ForgotPassword)
	user.POST("/reset-password", userController.ResetPassword)

	userProtected := user.Group("")
	userProtected.Use(authMiddleware.RequireAuth)
	userProtected.GET("/me", userController.Me)
	userProtected.PATCH("/settings", userController.UpdateSettings)
	userProtected.POST("/change-password", userController.ChangePassword)

	tasks := e.Group("/todos")
	tasks.Use(authMiddleware.RequireAuth)
	tasks.POST("", taskController.Create)
	tasks.GET("", taskController.List)
	tasks.GET("/:id", taskController.Get)
	tasks.PUT("/:id", taskController.Update)
	tasks.DELETE("/:id", taskController.Delete)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return nil
}
