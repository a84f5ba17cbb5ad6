package postservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/matter"
)

// UploadImages uploads every local image referenced by the document body and
// substitutes the references with the assigned permalinks. Documents not yet
// linked to a post are published first, since attachments need an existing
// post. The first upload failure aborts the whole batch and the document is
// left untouched. Returns the number of images uploaded.
func (s *Service) UploadImages(ctx context.Context, docPath string) (int, error) {
	unlock := s.lock(docPath)
	defer unlock()

	data, err := s.store.Read(docPath)
	if err != nil {
		return 0, err
	}
	doc := matter.Parse(string(data))

	ref, ok := doc.Sync()
	if ok && ref.Site != "" && ref.Site != s.siteURL {
		return 0, fmt.Errorf("%s is linked to %s: %w", docPath, ref.Site, apperr.ErrSiteMismatch)
	}
	if !ok || ref.ID == "" {
		if _, err := s.publish(ctx, docPath); err != nil {
			return 0, err
		}
		data, err = s.store.Read(docPath)
		if err != nil {
			return 0, err
		}
		doc = matter.Parse(string(data))
	}

	images := markdown.ScanLocalImages(doc.Body)
	if len(images) == 0 {
		return 0, nil
	}

	body := doc.Body
	for i, img := range images {
		if s.progress != nil {
			s.progress(i+1, len(images), img.Path)
		}

		rel := img.Path
		if unescaped, err := url.PathUnescape(rel); err == nil {
			rel = unescaped
		}
		rel = path.Join(path.Dir(docPath), rel)

		imageData, err := s.store.Read(rel)
		if err != nil {
			return 0, fmt.Errorf("read image %s: %w", img.Path, err)
		}
		permalink, err := s.uploader.Upload(ctx, path.Base(rel), imageData)
		if err != nil {
			return 0, fmt.Errorf("upload image %s: %w", img.Path, err)
		}
		// One substitution per scanned instance, in scan order.
		body = strings.Replace(body, img.Path, permalink, 1)
	}

	doc.Body = body
	if err := s.store.Write(docPath, []byte(doc.String())); err != nil {
		return 0, err
	}
	s.logger.Info("images uploaded", slog.String("path", docPath), slog.Int("count", len(images)))
	return len(images), nil
}
