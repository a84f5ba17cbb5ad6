// Package attachment uploads binary files as remote attachments and waits
// for the backend to assign them a permalink.
package attachment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/halo"
)

const (
	defaultPollInterval = time.Second
	defaultTimeout      = 30 * time.Second
)

// Uploader submits attachments under one storage policy and group.
type Uploader struct {
	gw       halo.Gateway
	baseURL  string
	policy   string
	group    string
	interval time.Duration
	timeout  time.Duration
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithTimeout bounds how long Upload waits for a permalink.
func WithTimeout(d time.Duration) Option {
	return func(u *Uploader) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// WithPollInterval sets the permalink poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(u *Uploader) {
		if d > 0 {
			u.interval = d
		}
	}
}

// NewUploader creates an uploader for one site.
func NewUploader(gw halo.Gateway, baseURL, policy, group string, opts ...Option) *Uploader {
	u := &Uploader{
		gw:       gw,
		baseURL:  strings.TrimRight(baseURL, "/"),
		policy:   policy,
		group:    group,
		interval: defaultPollInterval,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload submits the file and returns its permalink. The MIME type is sniffed
// from the content, not the filename. When the backend has not assigned a
// permalink yet, the attachment record is polled until one appears or the
// timeout elapses, in which case apperr.ErrUploadTimeout is returned.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	contentType := mimetype.Detect(data).String()

	att, err := u.gw.UploadAttachment(ctx, filename, contentType, data, u.policy, u.group)
	if err != nil {
		return "", err
	}

	policy, err := u.gw.GetPolicy(ctx, u.policy)
	if err != nil {
		return "", err
	}

	if permalink := permalinkOf(att); permalink != "" {
		return u.normalize(policy, permalink), nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", apperr.ErrUploadTimeout
			}
			return "", ctx.Err()
		case <-ticker.C:
			current, err := u.gw.GetAttachment(ctx, att.Metadata.Name)
			if err != nil {
				return "", err
			}
			if permalink := permalinkOf(current); permalink != "" {
				return u.normalize(policy, permalink), nil
			}
		}
	}
}

// normalize absolutizes path-only permalinks of local-storage policies
// against the site base URL.
func (u *Uploader) normalize(policy *halo.Policy, permalink string) string {
	if policy.Spec.TemplateName == "local" {
		return u.baseURL + permalink
	}
	return permalink
}

func permalinkOf(att *halo.Attachment) string {
	if att == nil || att.Status == nil {
		return ""
	}
	return att.Status.Permalink
}
