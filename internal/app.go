// Package internal wires the configured site, workspace, and sync engine
// together for the CLI commands.
package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal/attachment"
	"github.com/starford/ansuz/internal/halo"
	"github.com/starford/ansuz/internal/postservice"
	"github.com/starford/ansuz/internal/workspace"
)

// App holds the initialized collaborators of one run.
type App struct {
	config  *Config
	logger  *slog.Logger
	Gateway halo.Gateway
	Store   workspace.Store
	Service *postservice.Service
}

// NewApp builds the application from options.
func NewApp(opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(app.logger)
	}

	if err := os.MkdirAll(cfg.Workspace.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	store, err := workspace.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("init workspace: %w", err)
	}

	gw := halo.NewClient(halo.ClientConfig{
		BaseURL:  cfg.Site.URL,
		AuthMode: cfg.Site.AuthMode,
		Token:    cfg.Site.Token,
		Username: cfg.Site.Username,
		Password: cfg.Site.Password,
	})

	uploader := attachment.NewUploader(gw, cfg.Site.URL,
		cfg.Site.Attachment.Policy, cfg.Site.Attachment.Group,
		attachment.WithTimeout(cfg.Sync.UploadTimeout))

	logger := app.logger
	svc := postservice.NewService(gw, store, uploader, cfg.Site.URL,
		postservice.WithDefaultPublish(cfg.Sync.DefaultPublish),
		postservice.WithLogger(logger),
		postservice.WithProgress(func(done, total int, step string) {
			logger.Info("uploading image",
				slog.String("image", step),
				slog.String("progress", fmt.Sprintf("%d/%d", done, total)))
		}))

	app.Gateway = gw
	app.Store = store
	app.Service = svc
	return app, nil
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
