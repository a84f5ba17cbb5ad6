// Package halo is a typed client for the Halo CMS REST API: posts, content
// snapshots, taxonomy entries, attachments, and storage policies.
package halo

import (
	"context"

	"github.com/goliatone/go-slug"
)

// Gateway is the remote post gateway the sync engine is written against.
// Implementations perform no retries: every failure propagates immediately,
// as *apperr.RemoteError or apperr.ErrNotFound.
type Gateway interface {
	// GetPost fetches a post record together with its head content snapshot.
	GetPost(ctx context.Context, name string) (*PostRequest, error)
	// CreatePost creates a post with its content embedded in the payload.
	CreatePost(ctx context.Context, req *PostRequest) (*Post, error)
	// UpdatePost updates post metadata only.
	UpdatePost(ctx context.Context, name string, post *Post) error
	// UpdateContent updates the post's content snapshot only.
	UpdateContent(ctx context.Context, name string, content *Content) error
	Publish(ctx context.Context, name string) error
	Unpublish(ctx context.Context, name string) error
	// ListPosts returns all non-deleted posts.
	ListPosts(ctx context.Context) ([]ListedPost, error)

	ListCategories(ctx context.Context) ([]Category, error)
	ListTags(ctx context.Context) ([]Tag, error)
	CreateCategory(ctx context.Context, displayName string, priority int) (*Category, error)
	CreateTag(ctx context.Context, displayName string) (*Tag, error)

	// UploadAttachment submits a binary blob under the configured storage
	// policy and group. The returned record may not carry a permalink yet.
	UploadAttachment(ctx context.Context, filename, contentType string, data []byte, policy, group string) (*Attachment, error)
	GetAttachment(ctx context.Context, name string) (*Attachment, error)
	GetPolicy(ctx context.Context, name string) (*Policy, error)
}

// Slugify normalizes a display name or filename into a URL slug. Values that
// cannot be normalized are returned unchanged.
func Slugify(value string) string {
	s, err := slug.Normalize(value)
	if err != nil || s == "" {
		return value
	}
	return s
}
