// Package markdown renders post bodies to HTML and scans them for local
// image references.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var imageRe = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
)

// ImageRef is one local image reference found in a Markdown body.
// Path is the reference exactly as written between the parentheses.
type ImageRef struct {
	Path string
}

// ScanLocalImages returns every non-http image reference in document order.
// Duplicate references are reported once per occurrence so substitution can
// be applied per matched instance.
func ScanLocalImages(body string) []ImageRef {
	matches := imageRe.FindAllStringSubmatch(body, -1)
	var out []ImageRef
	for _, m := range matches {
		path := m[1]
		if path == "" || strings.HasPrefix(path, "http") {
			continue
		}
		out = append(out, ImageRef{Path: path})
	}
	return out
}

// Render converts Markdown source to HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
