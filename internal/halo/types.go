package halo

// Metadata identifies an API object.
type Metadata struct {
	Name         string            `json:"name"`
	GenerateName string            `json:"generateName,omitempty"`
	Annotations  map[string]string `json:"annotations,omitempty"`
}

// Excerpt is a post summary, either backend-generated or author-provided.
type Excerpt struct {
	AutoGenerate bool   `json:"autoGenerate"`
	Raw          string `json:"raw"`
}

// PostSpec is the editable part of a post record.
type PostSpec struct {
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Template     string              `json:"template"`
	Cover        string              `json:"cover"`
	Deleted      bool                `json:"deleted"`
	Publish      bool                `json:"publish"`
	PublishTime  *string             `json:"publishTime,omitempty"`
	Pinned       bool                `json:"pinned"`
	AllowComment bool                `json:"allowComment"`
	Visible      string              `json:"visible"`
	Priority     int                 `json:"priority"`
	Excerpt      Excerpt             `json:"excerpt"`
	Categories   []string            `json:"categories"`
	Tags         []string            `json:"tags"`
	HTMLMetas    []map[string]string `json:"htmlMetas"`
}

// PostStatus carries backend-assigned state.
type PostStatus struct {
	Permalink string `json:"permalink,omitempty"`
}

// Post is the backend's canonical post record.
type Post struct {
	APIVersion string      `json:"apiVersion"`
	Kind       string      `json:"kind"`
	Metadata   Metadata    `json:"metadata"`
	Spec       PostSpec    `json:"spec"`
	Status     *PostStatus `json:"status,omitempty"`
}

// Content is the post's draft snapshot, stored separately from the post record.
type Content struct {
	Raw     string `json:"raw"`
	Content string `json:"content"`
	RawType string `json:"rawType"`
}

// PostRequest pairs a post record with its content snapshot.
type PostRequest struct {
	Post    Post    `json:"post"`
	Content Content `json:"content"`
}

// ListedPost is one entry of a post listing.
type ListedPost struct {
	Post Post `json:"post"`
}

// ListedPostList is the wire shape of a post listing.
type ListedPostList struct {
	Items []ListedPost `json:"items"`
}

// CategorySpec describes a category taxonomy entry.
type CategorySpec struct {
	DisplayName string   `json:"displayName"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Cover       string   `json:"cover"`
	Template    string   `json:"template"`
	Priority    int      `json:"priority"`
	Children    []string `json:"children"`
}

// Category is a category taxonomy entry.
type Category struct {
	APIVersion string       `json:"apiVersion"`
	Kind       string       `json:"kind"`
	Metadata   Metadata     `json:"metadata"`
	Spec       CategorySpec `json:"spec"`
}

// CategoryList is the wire shape of a category listing.
type CategoryList struct {
	Items []Category `json:"items"`
}

// TagSpec describes a tag taxonomy entry.
type TagSpec struct {
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
	Color       string `json:"color"`
	Cover       string `json:"cover"`
}

// Tag is a tag taxonomy entry.
type Tag struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Metadata   Metadata `json:"metadata"`
	Spec       TagSpec  `json:"spec"`
}

// TagList is the wire shape of a tag listing.
type TagList struct {
	Items []Tag `json:"items"`
}

// AttachmentStatus carries backend-assigned attachment state. The permalink
// may be absent right after creation and has to be polled for.
type AttachmentStatus struct {
	Permalink string `json:"permalink,omitempty"`
}

// Attachment is an uploaded binary blob.
type Attachment struct {
	Metadata Metadata          `json:"metadata"`
	Status   *AttachmentStatus `json:"status,omitempty"`
}

// PolicySpec describes where a storage policy keeps its files.
type PolicySpec struct {
	DisplayName  string `json:"displayName"`
	TemplateName string `json:"templateName"`
}

// Policy is a storage policy for attachments.
type Policy struct {
	Metadata Metadata   `json:"metadata"`
	Spec     PolicySpec `json:"spec"`
}

// NewPostRequest returns the default payload for a post that does not exist
// remotely yet: an unpublished, publicly visible post with an auto-generated
// excerpt and a Markdown content snapshot.
func NewPostRequest() *PostRequest {
	return &PostRequest{
		Post: Post{
			APIVersion: "content.halo.run/v1alpha1",
			Kind:       "Post",
			Metadata: Metadata{
				Annotations: map[string]string{},
			},
			Spec: PostSpec{
				AllowComment: true,
				Visible:      "PUBLIC",
				Excerpt:      Excerpt{AutoGenerate: true},
				Categories:   []string{},
				Tags:         []string{},
				HTMLMetas:    []map[string]string{},
			},
		},
		Content: Content{
			RawType: "markdown",
		},
	}
}
