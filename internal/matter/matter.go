// Package matter parses and serializes Markdown front matter while preserving
// the order of keys the user already has, so custom metadata survives every
// sync operation untouched.
package matter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// SyncRef is the document's last-known linkage to a remote post.
// Published is a pointer so an absent flag can be told apart from false.
type SyncRef struct {
	Site      string `yaml:"site"`
	ID        string `yaml:"id"`
	Published *bool  `yaml:"published"`
}

// Doc is a Markdown document split into body and front matter.
type Doc struct {
	Body string
	meta *yaml.Node // mapping node; nil when the document has no front matter
}

// Parse splits a leading front-matter block from the body. Documents with no
// block, an unterminated block, or invalid YAML fall back to body-only.
func Parse(text string) *Doc {
	if !strings.HasPrefix(text, delim+"\n") {
		return &Doc{Body: text}
	}
	rest := text[len(delim)+1:]

	var block, body string
	if idx := strings.Index(rest, "\n"+delim+"\n"); idx >= 0 {
		block = rest[:idx+1]
		body = rest[idx+len(delim)+2:]
	} else if strings.HasSuffix(rest, "\n"+delim) {
		block = rest[:len(rest)-len(delim)]
		body = ""
	} else {
		return &Doc{Body: text}
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return &Doc{Body: text}
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return &Doc{Body: text}
	}
	return &Doc{Body: body, meta: root.Content[0]}
}

// String re-emits the front-matter block followed by the body. It is the left
// inverse of Parse for any document produced by String itself.
func (d *Doc) String() string {
	if d.meta == nil || len(d.meta.Content) == 0 {
		return d.Body
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.meta); err != nil {
		return d.Body
	}
	_ = enc.Close()
	return delim + "\n" + buf.String() + delim + "\n" + d.Body
}

// Has reports whether a top-level key is present.
func (d *Doc) Has(key string) bool {
	return d.value(key) != nil
}

// GetString returns the value of a top-level scalar key, or "".
func (d *Doc) GetString(key string) string {
	n := d.value(key)
	if n == nil {
		return ""
	}
	var s string
	if err := n.Decode(&s); err != nil {
		return ""
	}
	return s
}

// GetStringList returns the value of a top-level sequence key, or nil.
func (d *Doc) GetStringList(key string) []string {
	n := d.value(key)
	if n == nil {
		return nil
	}
	var out []string
	if err := n.Decode(&out); err != nil {
		return nil
	}
	return out
}

// Set replaces the value of an existing key in place, or appends the key at
// the end of the block. Unknown keys and their order are never disturbed.
func (d *Doc) Set(key string, value any) error {
	vn, err := nodeFor(value)
	if err != nil {
		return err
	}
	if d.meta == nil {
		d.meta = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if existing := d.value(key); existing != nil {
		*existing = *vn
		return nil
	}
	kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	d.meta.Content = append(d.meta.Content, kn, vn)
	return nil
}

// Sync returns the sync sub-block, if present.
func (d *Doc) Sync() (SyncRef, bool) {
	n := d.value("sync")
	if n == nil {
		return SyncRef{}, false
	}
	var ref SyncRef
	if err := n.Decode(&ref); err != nil {
		return SyncRef{}, false
	}
	return ref, true
}

// SetSync writes the sync sub-block.
func (d *Doc) SetSync(ref SyncRef) error {
	return d.Set("sync", ref)
}

func (d *Doc) value(key string) *yaml.Node {
	if d.meta == nil {
		return nil
	}
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			return d.meta.Content[i+1]
		}
	}
	return nil
}

// nodeFor converts an arbitrary value into a yaml.Node via a marshal round trip.
func nodeFor(value any) (*yaml.Node, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return root.Content[0], nil
}
