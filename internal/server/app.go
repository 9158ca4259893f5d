// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/newsroom/internal/logging"
	"github.com/dmitrijs2005/newsroom/internal/server/auth"
	"github.com/dmitrijs2005/newsroom/internal/server/config"
	"github.com/dmitrijs2005/newsroom/internal/server/httpapi"
	"github.com/dmitrijs2005/newsroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsroom/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	server   *httpapi.Server
}

// Stack is the storage and service layer shared by the server and the seed
// command.
type Stack struct {
	DB       *sql.DB
	Tokens   *auth.TokenCodec
	Accounts *services.AccountService
	Topics   *services.TopicService
	Articles *services.ArticleService
	Comments *services.CommentService
	Avatars  *services.AvatarService
}

// NewStack opens the database, applies migrations and builds the services.
func NewStack(ctx context.Context, c *config.Config) (*Stack, error) {
	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenCodec(c.SecretKey, c.TokenValidityDuration)

	return &Stack{
		DB:       db,
		Tokens:   tokens,
		Accounts: services.NewAccountService(db, rm, tokens, auth.BcryptHasher{}),
		Topics:   services.NewTopicService(db, rm),
		Articles: services.NewArticleService(db, rm),
		Comments: services.NewCommentService(db, rm),
		Avatars:  services.NewAvatarService(c),
	}, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.Debug)
	if err != nil {
		return nil, err
	}

	st, err := NewStack(ctx, c)
	if err != nil {
		return nil, err
	}

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, st.Tokens, httpapi.Services{
		Accounts: st.Accounts,
		Topics:   st.Topics,
		Articles: st.Articles,
		Comments: st.Comments,
		Avatars:  st.Avatars,
	})

	return &App{config: c, logger: logger, db: st.DB, accounts: st.Accounts, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// provisionAdmin resets the admin account when a password is configured.
func (app *App) provisionAdmin(ctx context.Context) {
	if app.config.AdminPassword == "" {
		app.logger.Warn(ctx, "admin password not configured, skipping admin provisioning")
		return
	}
	if err := app.accounts.ProvisionAdmin(ctx, app.config.AdminUsername, app.config.AdminPassword); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}
	app.logger.Info(ctx, "admin account provisioned", "username", app.config.AdminUsername)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() { _ = logging.Flush(app.logger) }()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.provisionAdmin(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
