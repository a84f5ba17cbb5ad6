// Package testutil provides shared test helpers: a temp workspace and an
// in-memory fake of the remote site's REST API.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/halo"
	"github.com/starford/ansuz/internal/workspace"
)

// Fake site credentials.
const (
	Token    = "test-token"
	Username = "admin"
	Password = "secret"
)

// TestWorkspace creates a temporary workspace directory with a Store.
func TestWorkspace(t *testing.T) (string, workspace.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := workspace.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// FakeSite is an in-memory stand-in for the remote API, served over httptest.
type FakeSite struct {
	Server *httptest.Server

	mu             sync.Mutex
	posts          map[string]*halo.PostRequest
	categories     []halo.Category
	tags           []halo.Tag
	attachments    map[string]*halo.Attachment
	attachmentGets map[string]int
	nextID         int

	// PermalinkAfter is how many attachment fetches happen before the
	// permalink appears. Zero means it is present right after upload.
	PermalinkAfter int
	// PolicyTemplate is the storage policy template name ("local" by default).
	PolicyTemplate string

	CreatePostCalls int
	PublishCalls    int
	UnpublishCalls  int
}

// NewFakeSite starts a fake site server that shuts down with the test.
func NewFakeSite(t *testing.T) *FakeSite {
	t.Helper()
	f := &FakeSite{
		posts:          make(map[string]*halo.PostRequest),
		attachments:    make(map[string]*halo.Attachment),
		attachmentGets: make(map[string]int),
		PolicyTemplate: "local",
	}
	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns a token-authenticated gateway pointed at the fake site.
func (f *FakeSite) Client() *halo.Client {
	return halo.NewClient(halo.ClientConfig{
		BaseURL:  f.Server.URL,
		AuthMode: halo.AuthToken,
		Token:    Token,
	})
}

// BasicClient returns a basic-auth gateway pointed at the fake site.
func (f *FakeSite) BasicClient() *halo.Client {
	return halo.NewClient(halo.ClientConfig{
		BaseURL:  f.Server.URL,
		AuthMode: halo.AuthBasic,
		Username: Username,
		Password: Password,
	})
}

// AddPost seeds a remote post.
func (f *FakeSite) AddPost(pr *halo.PostRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[pr.Post.Metadata.Name] = pr
}

// Post returns the stored post, or nil.
func (f *FakeSite) Post(name string) *halo.PostRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[name]
}

// AddCategory seeds a category and returns its id.
func (f *FakeSite) AddCategory(displayName string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.generateName("category-")
	f.categories = append(f.categories, halo.Category{
		Metadata: halo.Metadata{Name: id},
		Spec:     halo.CategorySpec{DisplayName: displayName, Slug: halo.Slugify(displayName)},
	})
	return id
}

// AddTag seeds a tag and returns its id.
func (f *FakeSite) AddTag(displayName string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.generateName("tag-")
	f.tags = append(f.tags, halo.Tag{
		Metadata: halo.Metadata{Name: id},
		Spec:     halo.TagSpec{DisplayName: displayName, Slug: halo.Slugify(displayName)},
	})
	return id
}

// Categories returns a copy of the stored categories.
func (f *FakeSite) Categories() []halo.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]halo.Category(nil), f.categories...)
}

func (f *FakeSite) generateName(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *FakeSite) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.auth)

	r.Route("/apis/content.halo.run/v1alpha1", func(r chi.Router) {
		r.Get("/posts/{name}", f.getPost)
		r.Put("/posts/{name}", f.updatePost)
		r.Get("/categories", f.listCategories)
		r.Post("/categories", f.createCategory)
		r.Get("/tags", f.listTags)
		r.Post("/tags", f.createTag)
	})
	r.Route("/apis/api.console.halo.run/v1alpha1", func(r chi.Router) {
		r.Get("/posts", f.listPosts)
		r.Post("/posts", f.createPost)
		r.Get("/posts/{name}/head-content", f.getContent)
		r.Put("/posts/{name}/content", f.updateContent)
		r.Put("/posts/{name}/publish", f.publish)
		r.Put("/posts/{name}/unpublish", f.unpublish)
		r.Post("/attachments/upload", f.uploadAttachment)
	})
	r.Route("/apis/storage.halo.run/v1alpha1", func(r chi.Router) {
		r.Get("/attachments/{name}", f.getAttachment)
		r.Get("/policies/{name}", f.getPolicy)
	})
	return r
}

func (f *FakeSite) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+Token {
			next.ServeHTTP(w, r)
			return
		}
		if user, pass, ok := r.BasicAuth(); ok && user == Username && pass == Password {
			next.ServeHTTP(w, r)
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"title": "unauthorized"})
	})
}

func (f *FakeSite) getPost(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.posts[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, pr.Post)
}

func (f *FakeSite) getContent(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.posts[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, pr.Content)
}

func (f *FakeSite) createPost(w http.ResponseWriter, r *http.Request) {
	var pr halo.PostRequest
	if !decode(w, r, &pr) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreatePostCalls++
	f.posts[pr.Post.Metadata.Name] = &pr
	writeJSON(w, http.StatusOK, pr.Post)
}

func (f *FakeSite) updatePost(w http.ResponseWriter, r *http.Request) {
	var post halo.Post
	if !decode(w, r, &post) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.posts[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	pr.Post = post
	writeJSON(w, http.StatusOK, post)
}

func (f *FakeSite) updateContent(w http.ResponseWriter, r *http.Request) {
	var content halo.Content
	if !decode(w, r, &content) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.posts[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	pr.Content = content
	writeJSON(w, http.StatusOK, content)
}

func (f *FakeSite) publish(w http.ResponseWriter, r *http.Request) {
	f.setPublished(w, r, true)
}

func (f *FakeSite) unpublish(w http.ResponseWriter, r *http.Request) {
	f.setPublished(w, r, false)
}

func (f *FakeSite) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.posts[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if published {
		f.PublishCalls++
	} else {
		f.UnpublishCalls++
	}
	pr.Post.Spec.Publish = published
	if published {
		pr.Post.Status = &halo.PostStatus{Permalink: "/archives/" + pr.Post.Spec.Slug}
	}
	writeJSON(w, http.StatusOK, pr.Post)
}

func (f *FakeSite) listPosts(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := halo.ListedPostList{Items: []halo.ListedPost{}}
	for _, pr := range f.posts {
		list.Items = append(list.Items, halo.ListedPost{Post: pr.Post})
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *FakeSite) listCategories(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, halo.CategoryList{Items: append([]halo.Category{}, f.categories...)})
}

func (f *FakeSite) createCategory(w http.ResponseWriter, r *http.Request) {
	var category halo.Category
	if !decode(w, r, &category) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	category.Metadata.Name = f.generateName(category.Metadata.GenerateName)
	f.categories = append(f.categories, category)
	writeJSON(w, http.StatusOK, category)
}

func (f *FakeSite) listTags(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, halo.TagList{Items: append([]halo.Tag{}, f.tags...)})
}

func (f *FakeSite) createTag(w http.ResponseWriter, r *http.Request) {
	var tag halo.Tag
	if !decode(w, r, &tag) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tag.Metadata.Name = f.generateName(tag.Metadata.GenerateName)
	f.tags = append(f.tags, tag)
	writeJSON(w, http.StatusOK, tag)
}

func (f *FakeSite) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"title": "invalid multipart"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"title": "missing file field"})
		return
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"title": "read failed"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	att := &halo.Attachment{Metadata: halo.Metadata{Name: f.generateName("attachment-")}}
	if f.PermalinkAfter == 0 {
		att.Status = &halo.AttachmentStatus{Permalink: "/upload/" + header.Filename}
	} else {
		// Permalink appears once the record has been fetched enough times.
		f.attachmentGets[att.Metadata.Name] = 0
		att.Status = &halo.AttachmentStatus{}
		att.Metadata.Annotations = map[string]string{"filename": header.Filename}
	}
	f.attachments[att.Metadata.Name] = att
	writeJSON(w, http.StatusOK, att)
}

func (f *FakeSite) getAttachment(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := chi.URLParam(r, "name")
	att, ok := f.attachments[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if att.Status == nil || att.Status.Permalink == "" {
		f.attachmentGets[name]++
		if f.attachmentGets[name] >= f.PermalinkAfter {
			att.Status = &halo.AttachmentStatus{Permalink: "/upload/" + att.Metadata.Annotations["filename"]}
		}
	}
	writeJSON(w, http.StatusOK, att)
}

func (f *FakeSite) getPolicy(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, halo.Policy{
		Metadata: halo.Metadata{Name: chi.URLParam(r, "name")},
		Spec:     halo.PolicySpec{DisplayName: "Test policy", TemplateName: f.PolicyTemplate},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"title": "invalid body"})
		return false
	}
	return true
}
