package markdown

import (
	"strings"
	"testing"
)

func TestScanLocalImages_SkipsRemote(t *testing.T) {
	body := "![a](./img.png)\n![b](https://cdn/x.png)\n![c](http://cdn/y.png)\n![d](../other.jpg)"
	refs := ScanLocalImages(body)
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2: %v", len(refs), refs)
	}
	if refs[0].Path != "./img.png" || refs[1].Path != "../other.jpg" {
		t.Errorf("refs = %v", refs)
	}
}

func TestScanLocalImages_DuplicatesKeptInOrder(t *testing.T) {
	body := "![a](img.png) and again ![b](img.png)"
	refs := ScanLocalImages(body)
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}
}

func TestScanLocalImages_None(t *testing.T) {
	if refs := ScanLocalImages("no images here, just [a link](./doc.md)"); refs != nil {
		t.Errorf("refs = %v, want nil", refs)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Hello\n\nSome *text*.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<em>text</em>") {
		t.Errorf("unexpected html: %q", out)
	}
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	out, err := Render("before\n\n<div class=\"x\">raw</div>\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<div class=\"x\">") {
		t.Errorf("raw html stripped: %q", out)
	}
}
