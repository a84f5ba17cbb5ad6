// Package postservice implements the sync engine: publishing local Markdown
// documents as remote posts, pulling remote posts to local files, refreshing
// local front matter, and uploading embedded images.
package postservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/ansuz/internal/halo"
	"github.com/starford/ansuz/internal/matter"
	"github.com/starford/ansuz/internal/taxonomy"
	"github.com/starford/ansuz/internal/workspace"
)

// Uploader uploads one attachment and returns its permalink.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ProgressFunc reports incremental progress of a multi-step operation.
type ProgressFunc func(done, total int, step string)

// Service coordinates the gateway, taxonomy resolver, uploader, and the
// local workspace. At most one operation runs per document at a time.
type Service struct {
	gw             halo.Gateway
	taxa           *taxonomy.Resolver
	uploader       Uploader
	store          workspace.Store
	siteURL        string
	defaultPublish bool
	progress       ProgressFunc
	logger         *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option is a functional option for configuring the service.
type Option func(*Service)

// WithDefaultPublish sets the publish policy applied when a document carries
// no explicit published flag.
func WithDefaultPublish(v bool) Option {
	return func(s *Service) {
		s.defaultPublish = v
	}
}

// WithProgress sets the progress callback for image uploads.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the sync engine for one site.
func NewService(gw halo.Gateway, store workspace.Store, uploader Uploader, siteURL string, opts ...Option) *Service {
	s := &Service{
		gw:       gw,
		taxa:     taxonomy.NewResolver(gw),
		uploader: uploader,
		store:    store,
		siteURL:  siteURL,
		logger:   slog.Default(),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPosts returns all non-deleted remote posts.
func (s *Service) ListPosts(ctx context.Context) ([]halo.ListedPost, error) {
	return s.gw.ListPosts(ctx)
}

// lock acquires the per-document mutex and returns its release func.
func (s *Service) lock(path string) func() {
	s.mu.Lock()
	m, ok := s.locks[path]
	if !ok {
		m = &sync.Mutex{}
		s.locks[path] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// applyCanonical overlays the canonical remote state onto the document's
// front matter. Keys the post does not use and the document does not carry
// are left alone.
func (s *Service) applyCanonical(ctx context.Context, doc *matter.Doc, pr *halo.PostRequest) error {
	categories, err := s.taxa.CategoryDisplayNames(ctx, pr.Post.Spec.Categories)
	if err != nil {
		return err
	}
	tags, err := s.taxa.TagDisplayNames(ctx, pr.Post.Spec.Tags)
	if err != nil {
		return err
	}

	if err := doc.Set("title", pr.Post.Spec.Title); err != nil {
		return err
	}
	if pr.Post.Spec.Slug != "" {
		if err := doc.Set("slug", pr.Post.Spec.Slug); err != nil {
			return err
		}
	}
	if pr.Post.Spec.Cover != "" || doc.Has("cover") {
		if err := doc.Set("cover", pr.Post.Spec.Cover); err != nil {
			return err
		}
	}
	if !pr.Post.Spec.Excerpt.AutoGenerate && pr.Post.Spec.Excerpt.Raw != "" {
		if err := doc.Set("excerpt", pr.Post.Spec.Excerpt.Raw); err != nil {
			return err
		}
	}
	if len(categories) > 0 || doc.Has("categories") {
		if err := doc.Set("categories", categories); err != nil {
			return err
		}
	}
	if len(tags) > 0 || doc.Has("tags") {
		if err := doc.Set("tags", tags); err != nil {
			return err
		}
	}

	published := pr.Post.Spec.Publish
	return doc.SetSync(matter.SyncRef{
		Site:      s.siteURL,
		ID:        pr.Post.Metadata.Name,
		Published: &published,
	})
}
