package halo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/halo"
	"github.com/starford/ansuz/internal/testutil"
)

func TestGetPost_NotFound(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.Client()

	_, err := c.GetPost(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateThenGetPost(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.Client()

	req := halo.NewPostRequest()
	req.Post.Metadata.Name = "post-1"
	req.Post.Spec.Title = "Hello"
	req.Post.Spec.Slug = "hello"
	req.Content.Raw = "Body"
	req.Content.Content = "<p>Body</p>"

	created, err := c.CreatePost(context.Background(), req)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if created.Metadata.Name != "post-1" {
		t.Errorf("created name = %q", created.Metadata.Name)
	}

	got, err := c.GetPost(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Post.Spec.Title != "Hello" || got.Content.Raw != "Body" {
		t.Errorf("got = %+v", got)
	}
}

func TestUpdatePostAndContent_SeparateCalls(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.Client()

	req := halo.NewPostRequest()
	req.Post.Metadata.Name = "post-1"
	req.Post.Spec.Title = "Old"
	if _, err := c.CreatePost(context.Background(), req); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	post := req.Post
	post.Spec.Title = "New"
	if err := c.UpdatePost(context.Background(), "post-1", &post); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if err := c.UpdateContent(context.Background(), "post-1", &halo.Content{Raw: "updated", RawType: "markdown"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	got, err := c.GetPost(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Post.Spec.Title != "New" || got.Content.Raw != "updated" {
		t.Errorf("got = %+v", got)
	}
}

func TestPublishUnpublish(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.Client()

	req := halo.NewPostRequest()
	req.Post.Metadata.Name = "post-1"
	req.Post.Spec.Slug = "hello"
	if _, err := c.CreatePost(context.Background(), req); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := c.Publish(context.Background(), "post-1"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, _ := c.GetPost(context.Background(), "post-1")
	if !got.Post.Spec.Publish {
		t.Error("post should be published")
	}
	if got.Post.Status == nil || got.Post.Status.Permalink == "" {
		t.Error("published post should carry a permalink")
	}

	if err := c.Unpublish(context.Background(), "post-1"); err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	got, _ = c.GetPost(context.Background(), "post-1")
	if got.Post.Spec.Publish {
		t.Error("post should be unpublished")
	}
}

func TestAuth_BadTokenIsRemoteError(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := halo.NewClient(halo.ClientConfig{
		BaseURL:  site.Server.URL,
		AuthMode: halo.AuthToken,
		Token:    "wrong",
	})

	_, err := c.ListPosts(context.Background())
	var remote *apperr.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.Status != 401 {
		t.Errorf("status = %d, want 401", remote.Status)
	}
}

func TestAuth_BasicMode(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.BasicClient()

	if _, err := c.ListPosts(context.Background()); err != nil {
		t.Fatalf("basic auth should be accepted: %v", err)
	}
}

func TestCreateCategory_PayloadDefaults(t *testing.T) {
	site := testutil.NewFakeSite(t)
	c := site.Client()

	created, err := c.CreateCategory(context.Background(), "My Category", 3)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if created.Metadata.Name == "" {
		t.Error("server should assign a name")
	}
	if created.Spec.DisplayName != "My Category" || created.Spec.Priority != 3 {
		t.Errorf("spec = %+v", created.Spec)
	}
	if created.Spec.Slug == "" || created.Spec.Slug == "My Category" {
		t.Errorf("slug not normalized: %q", created.Spec.Slug)
	}
}

func TestSlugify(t *testing.T) {
	if got := halo.Slugify("Hello World"); got != "hello-world" {
		t.Errorf("Slugify = %q, want hello-world", got)
	}
}
