package postservice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/halo"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/matter"
)

// PublishResult describes the remote post a document is now linked to.
type PublishResult struct {
	ID        string
	Title     string
	Permalink string
	Published bool
}

// Publish reconciles the document at docPath with its remote post, creating
// the post on first publish. The document is rewritten with canonical front
// matter only after every remote step has succeeded.
func (s *Service) Publish(ctx context.Context, docPath string) (*PublishResult, error) {
	unlock := s.lock(docPath)
	defer unlock()
	return s.publish(ctx, docPath)
}

func (s *Service) publish(ctx context.Context, docPath string) (*PublishResult, error) {
	data, err := s.store.Read(docPath)
	if err != nil {
		return nil, err
	}
	doc := matter.Parse(string(data))

	ref, hasRef := doc.Sync()
	if hasRef && ref.Site != "" && ref.Site != s.siteURL {
		return nil, fmt.Errorf("%s is linked to %s: %w", docPath, ref.Site, apperr.ErrSiteMismatch)
	}

	req := halo.NewPostRequest()
	if hasRef && ref.ID != "" {
		existing, err := s.gw.GetPost(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		req = existing
	}

	rendered, err := markdown.Render(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}
	req.Content.Raw = doc.Body
	req.Content.Content = rendered
	req.Content.RawType = "markdown"

	if title := doc.GetString("title"); title != "" {
		req.Post.Spec.Title = title
	}
	if slug := doc.GetString("slug"); slug != "" {
		req.Post.Spec.Slug = slug
	}
	if excerpt := doc.GetString("excerpt"); excerpt != "" {
		req.Post.Spec.Excerpt.Raw = excerpt
		req.Post.Spec.Excerpt.AutoGenerate = false
	}
	if cover := doc.GetString("cover"); cover != "" {
		req.Post.Spec.Cover = cover
	}
	if categories := doc.GetStringList("categories"); categories != nil {
		ids, err := s.taxa.CategoryIDs(ctx, categories)
		if err != nil {
			return nil, err
		}
		req.Post.Spec.Categories = ids
	}
	if tags := doc.GetStringList("tags"); tags != nil {
		ids, err := s.taxa.TagIDs(ctx, tags)
		if err != nil {
			return nil, err
		}
		req.Post.Spec.Tags = ids
	}

	if req.Post.Metadata.Name != "" {
		if err := s.gw.UpdatePost(ctx, req.Post.Metadata.Name, &req.Post); err != nil {
			return nil, err
		}
		if err := s.gw.UpdateContent(ctx, req.Post.Metadata.Name, &req.Content); err != nil {
			return nil, err
		}
	} else {
		base := strings.TrimSuffix(path.Base(docPath), ".md")
		req.Post.Metadata.Name = uuid.NewString()
		if req.Post.Spec.Title == "" {
			req.Post.Spec.Title = base
		}
		if req.Post.Spec.Slug == "" {
			req.Post.Spec.Slug = halo.Slugify(base)
		}
		created, err := s.gw.CreatePost(ctx, req)
		if err != nil {
			return nil, err
		}
		req.Post = *created
	}
	name := req.Post.Metadata.Name

	publish := s.defaultPublish
	if ref.Published != nil {
		publish = *ref.Published
	}
	if publish {
		err = s.gw.Publish(ctx, name)
	} else {
		err = s.gw.Unpublish(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	canonical, err := s.gw.GetPost(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.applyCanonical(ctx, doc, canonical); err != nil {
		return nil, err
	}
	if err := s.store.Write(docPath, []byte(doc.String())); err != nil {
		return nil, err
	}

	result := &PublishResult{
		ID:        name,
		Title:     canonical.Post.Spec.Title,
		Published: canonical.Post.Spec.Publish,
	}
	if canonical.Post.Status != nil && canonical.Post.Status.Permalink != "" {
		result.Permalink = s.siteURL + canonical.Post.Status.Permalink
	}
	s.logger.Info("post published",
		slog.String("path", docPath),
		slog.String("id", result.ID),
		slog.Bool("published", result.Published),
		slog.String("permalink", result.Permalink))
	return result, nil
}
