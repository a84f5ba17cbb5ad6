package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/halo"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Site      SiteConfig        `yaml:"site"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	Sync      SyncConfig        `yaml:"sync"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	return c.Sync.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SiteConfig identifies the one remote site this tool syncs against.
//
// AuthMode controls how requests are authenticated:
//   - "token" (default): personal access token sent as a Bearer header.
//   - "basic": username/password basic auth.
type SiteConfig struct {
	URL        string           `yaml:"url"`
	AuthMode   string           `yaml:"auth_mode"`
	Token      string           `yaml:"token"`
	Username   string           `yaml:"username"`
	Password   string           `yaml:"password"`
	Attachment AttachmentConfig `yaml:"attachment"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if c.AuthMode == "" {
		c.AuthMode = halo.AuthToken
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.AuthMode, validation.Required, validation.In(halo.AuthToken, halo.AuthBasic)),
	); err != nil {
		return err
	}
	switch c.AuthMode {
	case halo.AuthToken:
		if c.Token == "" {
			return fmt.Errorf("site: auth_mode is %q but token is empty", halo.AuthToken)
		}
	case halo.AuthBasic:
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("site: auth_mode is %q but username or password is empty", halo.AuthBasic)
		}
	}
	return c.Attachment.Validate()
}

// AttachmentConfig selects the storage policy and group uploads go to.
// An empty group means ungrouped.
type AttachmentConfig struct {
	Policy string `yaml:"policy"`
	Group  string `yaml:"group"`
}

// Validate validates the attachment configuration.
func (c *AttachmentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Policy, validation.Required),
	)
}

// WorkspaceConfig holds the path to the local Markdown workspace.
type WorkspaceConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SyncConfig holds sync policy settings.
type SyncConfig struct {
	// DefaultPublish applies when a document has no explicit published flag.
	DefaultPublish bool `yaml:"default_publish"`
	// UploadTimeout bounds the attachment permalink poll.
	UploadTimeout time.Duration `yaml:"upload_timeout"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	if c.UploadTimeout < 0 {
		return fmt.Errorf("sync: upload_timeout must not be negative")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Site: SiteConfig{
			AuthMode: halo.AuthToken,
		},
		Workspace: WorkspaceConfig{
			Path: ".",
		},
		Sync: SyncConfig{
			UploadTimeout: 30 * time.Second,
		},
	}
}
