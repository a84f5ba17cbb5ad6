package halo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

// Auth modes.
const (
	AuthToken = "token"
	AuthBasic = "basic"
)

const (
	contentAPI = "/apis/content.halo.run/v1alpha1"
	consoleAPI = "/apis/api.console.halo.run/v1alpha1"
	storageAPI = "/apis/storage.halo.run/v1alpha1"
)

// ClientConfig configures the HTTP gateway.
type ClientConfig struct {
	BaseURL  string
	AuthMode string // AuthToken or AuthBasic
	Token    string
	Username string
	Password string
	Timeout  time.Duration
}

// Client implements Gateway over the Halo REST API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a gateway for one site.
func NewClient(cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// GetPost fetches the post record and its head content snapshot.
func (c *Client) GetPost(ctx context.Context, name string) (*PostRequest, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, contentAPI+"/posts/"+name, nil, nil, &post); err != nil {
		return nil, err
	}
	var content Content
	if err := c.do(ctx, http.MethodGet, consoleAPI+"/posts/"+name+"/head-content", nil, nil, &content); err != nil {
		return nil, err
	}
	return &PostRequest{Post: post, Content: content}, nil
}

func (c *Client) CreatePost(ctx context.Context, req *PostRequest) (*Post, error) {
	var created Post
	if err := c.do(ctx, http.MethodPost, consoleAPI+"/posts", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdatePost(ctx context.Context, name string, post *Post) error {
	return c.do(ctx, http.MethodPut, contentAPI+"/posts/"+name, nil, post, nil)
}

func (c *Client) UpdateContent(ctx context.Context, name string, content *Content) error {
	return c.do(ctx, http.MethodPut, consoleAPI+"/posts/"+name+"/content", nil, content, nil)
}

func (c *Client) Publish(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, consoleAPI+"/posts/"+name+"/publish", nil, nil, nil)
}

func (c *Client) Unpublish(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, consoleAPI+"/posts/"+name+"/unpublish", nil, nil, nil)
}

func (c *Client) ListPosts(ctx context.Context) ([]ListedPost, error) {
	query := url.Values{"labelSelector": []string{"content.halo.run/deleted=false"}}
	var list ListedPostList
	if err := c.do(ctx, http.MethodGet, consoleAPI+"/posts", query, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var list CategoryList
	if err := c.do(ctx, http.MethodGet, contentAPI+"/categories", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var list TagList
	if err := c.do(ctx, http.MethodGet, contentAPI+"/tags", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) CreateCategory(ctx context.Context, displayName string, priority int) (*Category, error) {
	payload := Category{
		APIVersion: "content.halo.run/v1alpha1",
		Kind:       "Category",
		Metadata:   Metadata{GenerateName: "category-"},
		Spec: CategorySpec{
			DisplayName: displayName,
			Slug:        Slugify(displayName),
			Priority:    priority,
			Children:    []string{},
		},
	}
	var created Category
	if err := c.do(ctx, http.MethodPost, contentAPI+"/categories", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateTag(ctx context.Context, displayName string) (*Tag, error) {
	payload := Tag{
		APIVersion: "content.halo.run/v1alpha1",
		Kind:       "Tag",
		Metadata:   Metadata{GenerateName: "tag-"},
		Spec: TagSpec{
			DisplayName: displayName,
			Slug:        Slugify(displayName),
			Color:       "#ffffff",
		},
	}
	var created Tag
	if err := c.do(ctx, http.MethodPost, contentAPI+"/tags", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UploadAttachment(ctx context.Context, filename, contentType string, data []byte, policy, group string) (*Attachment, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("halo: build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("halo: build upload form: %w", err)
	}
	if err := form.WriteField("policyName", policy); err != nil {
		return nil, fmt.Errorf("halo: build upload form: %w", err)
	}
	if err := form.WriteField("groupName", group); err != nil {
		return nil, fmt.Errorf("halo: build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("halo: build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+consoleAPI+"/attachments/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("halo: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var att Attachment
	if err := c.send(req, &att); err != nil {
		return nil, err
	}
	return &att, nil
}

func (c *Client) GetAttachment(ctx context.Context, name string) (*Attachment, error) {
	var att Attachment
	if err := c.do(ctx, http.MethodGet, storageAPI+"/attachments/"+name, nil, nil, &att); err != nil {
		return nil, err
	}
	return &att, nil
}

func (c *Client) GetPolicy(ctx context.Context, name string) (*Policy, error) {
	var policy Policy
	if err := c.do(ctx, http.MethodGet, storageAPI+"/policies/"+name, nil, nil, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// do performs one JSON request. 404 maps to apperr.ErrNotFound; any other
// non-2xx status maps to *apperr.RemoteError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("halo: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("halo: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	switch c.cfg.AuthMode {
	case AuthBasic:
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	default:
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperr.RemoteError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperr.RemoteError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.RemoteError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// readErrorMessage extracts a human-readable message from an error body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Title != "" {
			return body.Title
		}
	}
	return strings.TrimSpace(string(data))
}
