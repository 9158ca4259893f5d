// Package httpapi exposes the newsroom services over a JSON REST API served
// by echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/newsroom/internal/logging"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/models"
	"github.com/dmitrijs2005/newsroom/internal/server/services"
	"github.com/dmitrijs2005/newsroom/internal/server/validate"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

type AccountService interface {
	Register(ctx context.Context, in validate.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, username, password string) (*services.AuthResult, error)
	ResolveActive(ctx context.Context, username string) (*models.User, error)
	SoftDelete(ctx context.Context, target string, actor auth.Identity) error
	Update(ctx context.Context, target string, in validate.UserPatchInput, actor auth.Identity) (*models.PublicUser, error)
	GetUserInformation(ctx context.Context, username string) (*models.UserInformation, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

type TopicService interface {
	List(ctx context.Context) ([]models.Topic, error)
}

type ArticleService interface {
	List(ctx context.Context, topic, sortBy, order string) ([]models.Article, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	Create(ctx context.Context, article models.NewArticle, author string) (*models.Article, error)
	Vote(ctx context.Context, id int64, delta int) (*models.Article, error)
	Delete(ctx context.Context, id int64, actor auth.Identity) error
}

type CommentService interface {
	ListForArticle(ctx context.Context, articleID int64) ([]models.Comment, error)
	Create(ctx context.Context, articleID int64, author, body string) (*models.Comment, error)
	Vote(ctx context.Context, id int64, delta int) (*models.Comment, error)
	Delete(ctx context.Context, id int64, actor auth.Identity) error
}

type AvatarService interface {
	PresignUpload(ctx context.Context, username string) (*services.AvatarUpload, error)
}

// Services bundles everything the handlers call into.
type Services struct {
	Accounts AccountService
	Topics   TopicService
	Articles ArticleService
	Comments CommentService
	Avatars  AvatarService
}

type Server struct {
	address string
	logger  logging.Logger
	tokens  *auth.TokenCodec
	svc     Services
	echo    *echo.Echo
}

func NewServer(address string, l logging.Logger, tokens *auth.TokenCodec, svc Services) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		tokens:  tokens,
		svc:     svc,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s.echo = e
	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
