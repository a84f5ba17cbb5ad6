package postservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/matter"
)

// Update refreshes the document's front matter and body from the canonical
// remote state. It requires the document to be linked to a post already.
func (s *Service) Update(ctx context.Context, docPath string) error {
	unlock := s.lock(docPath)
	defer unlock()
	return s.update(ctx, docPath)
}

func (s *Service) update(ctx context.Context, docPath string) error {
	data, err := s.store.Read(docPath)
	if err != nil {
		return err
	}
	doc := matter.Parse(string(data))

	ref, ok := doc.Sync()
	if !ok || ref.ID == "" {
		return fmt.Errorf("%s: %w", docPath, apperr.ErrNotPublishedYet)
	}
	if ref.Site != "" && ref.Site != s.siteURL {
		return fmt.Errorf("%s is linked to %s: %w", docPath, ref.Site, apperr.ErrSiteMismatch)
	}

	pr, err := s.gw.GetPost(ctx, ref.ID)
	if err != nil {
		return err
	}

	doc.Body = pr.Content.Raw
	if err := s.applyCanonical(ctx, doc, pr); err != nil {
		return err
	}
	if err := s.store.Write(docPath, []byte(doc.String())); err != nil {
		return err
	}
	s.logger.Info("post metadata updated", slog.String("path", docPath), slog.String("id", ref.ID))
	return nil
}

// Pull fetches a remote post into a new local file named after its title.
// It fails with apperr.ErrAlreadyExists when the file is taken.
func (s *Service) Pull(ctx context.Context, id string) (string, error) {
	pr, err := s.gw.GetPost(ctx, id)
	if err != nil {
		return "", err
	}

	docPath := pr.Post.Spec.Title + ".md"
	doc := matter.Parse(pr.Content.Raw)
	if err := s.applyCanonical(ctx, doc, pr); err != nil {
		return "", err
	}
	if err := s.store.WriteNew(docPath, []byte(doc.String())); err != nil {
		return "", err
	}
	s.logger.Info("post pulled", slog.String("path", docPath), slog.String("id", id))
	return docPath, nil
}
