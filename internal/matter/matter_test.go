package matter

import (
	"strings"
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	d := Parse("---\ntitle: Hello\ntags:\n  - go\n---\n# Hello\nBody text.\n")
	if got := d.GetString("title"); got != "Hello" {
		t.Errorf("title = %q, want %q", got, "Hello")
	}
	tags := d.GetStringList("tags")
	if len(tags) != 1 || tags[0] != "go" {
		t.Errorf("tags = %v, want [go]", tags)
	}
	if d.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	text := "# Just a heading\nSome text.\n"
	d := Parse(text)
	if d.Has("title") {
		t.Error("expected no metadata")
	}
	if d.Body != text {
		t.Errorf("body = %q, want input unchanged", d.Body)
	}
}

func TestParse_UnterminatedBlock(t *testing.T) {
	text := "---\ntitle: Hello\nno closing delimiter"
	d := Parse(text)
	if d.Body != text {
		t.Errorf("body = %q, want full input", d.Body)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	text := "---\n: invalid: yaml: {{{\n---\nBody\n"
	d := Parse(text)
	if d.Has("title") || d.Body != text {
		t.Errorf("invalid YAML should fall back to body-only, got body %q", d.Body)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"---\ntitle: Hello\n---\nBody\n",
		"---\ntitle: Hello\nslug: hello\ncategories:\n  - Dev\n---\n",
		"---\ntitle: Hello\n---\n\nBody starts after a blank line\n",
		"plain body, no matter\n",
	}
	for _, in := range inputs {
		d := Parse(in)
		out := d.String()
		again := Parse(out)
		if again.Body != d.Body {
			t.Errorf("body changed across round trip: %q vs %q", d.Body, again.Body)
		}
		if Parse(out).String() != out {
			t.Errorf("serialize(parse(x)) not stable for %q: got %q", in, out)
		}
	}
}

func TestSet_PreservesUnknownKeysAndOrder(t *testing.T) {
	d := Parse("---\ncustom_a: 1\ntitle: Old\ncustom_b: two\n---\nBody")
	if err := d.Set("title", "New"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("slug", "new-post"); err != nil {
		t.Fatal(err)
	}
	out := d.String()

	wantOrder := []string{"custom_a:", "title:", "custom_b:", "slug:"}
	last := -1
	for _, key := range wantOrder {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("key %q missing from output:\n%s", key, out)
		}
		if idx < last {
			t.Fatalf("key %q out of order in output:\n%s", key, out)
		}
		last = idx
	}
	if !strings.Contains(out, "title: New") {
		t.Errorf("title not replaced:\n%s", out)
	}
}

func TestSet_OnBodyOnlyDocument(t *testing.T) {
	d := Parse("Body only\n")
	if err := d.Set("title", "Hello"); err != nil {
		t.Fatal(err)
	}
	out := d.String()
	if !strings.HasPrefix(out, "---\ntitle: Hello\n---\n") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.HasSuffix(out, "Body only\n") {
		t.Errorf("body lost: %q", out)
	}
}

func TestSyncRef(t *testing.T) {
	d := Parse("---\ntitle: Hello\n---\nBody")
	if _, ok := d.Sync(); ok {
		t.Fatal("expected no sync block")
	}
	published := true
	if err := d.SetSync(SyncRef{Site: "https://example.com", ID: "abc", Published: &published}); err != nil {
		t.Fatal(err)
	}
	again := Parse(d.String())
	ref, ok := again.Sync()
	if !ok {
		t.Fatal("sync block missing after round trip")
	}
	if ref.Site != "https://example.com" || ref.ID != "abc" {
		t.Errorf("ref = %+v", ref)
	}
	if ref.Published == nil || !*ref.Published {
		t.Errorf("published = %v, want true", ref.Published)
	}
}

func TestSync_AbsentPublishedFlag(t *testing.T) {
	d := Parse("---\nsync:\n  site: https://example.com\n  id: abc\n---\nBody")
	ref, ok := d.Sync()
	if !ok {
		t.Fatal("expected sync block")
	}
	if ref.Published != nil {
		t.Errorf("published = %v, want nil for absent flag", *ref.Published)
	}
}
