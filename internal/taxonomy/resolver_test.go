package taxonomy

import (
	"context"
	"testing"

	"github.com/starford/ansuz/internal/testutil"
)

func TestCategoryIDs_IndexAligned(t *testing.T) {
	site := testutil.NewFakeSite(t)
	devID := site.AddCategory("Dev")
	opsID := site.AddCategory("Ops")
	r := NewResolver(site.Client())

	input := []string{"Ops", "Brand New", "Dev", "Ops"}
	ids, err := r.CategoryIDs(context.Background(), input)
	if err != nil {
		t.Fatalf("CategoryIDs: %v", err)
	}
	if len(ids) != len(input) {
		t.Fatalf("len(ids) = %d, want %d", len(ids), len(input))
	}
	if ids[0] != opsID || ids[2] != devID || ids[3] != opsID {
		t.Errorf("existing ids misaligned: %v", ids)
	}
	if ids[1] == "" || ids[1] == devID || ids[1] == opsID {
		t.Errorf("new category id missing or wrong: %v", ids)
	}
}

func TestCategoryIDs_DuplicateNewNamesCreatedOnce(t *testing.T) {
	site := testutil.NewFakeSite(t)
	r := NewResolver(site.Client())

	ids, err := r.CategoryIDs(context.Background(), []string{"Fresh", "Fresh", "Fresh"})
	if err != nil {
		t.Fatalf("CategoryIDs: %v", err)
	}
	if ids[0] != ids[1] || ids[1] != ids[2] {
		t.Errorf("duplicate names should share one id: %v", ids)
	}
	if got := len(site.Categories()); got != 1 {
		t.Errorf("created %d categories, want 1", got)
	}
}

func TestCategoryIDs_CaseSensitiveMatch(t *testing.T) {
	site := testutil.NewFakeSite(t)
	devID := site.AddCategory("Dev")
	r := NewResolver(site.Client())

	ids, err := r.CategoryIDs(context.Background(), []string{"dev"})
	if err != nil {
		t.Fatalf("CategoryIDs: %v", err)
	}
	if ids[0] == devID {
		t.Error("lowercase name should not match existing entry")
	}
}

func TestTagIDs_MixedExistingAndNew(t *testing.T) {
	site := testutil.NewFakeSite(t)
	goID := site.AddTag("go")
	r := NewResolver(site.Client())

	ids, err := r.TagIDs(context.Background(), []string{"go", "sync"})
	if err != nil {
		t.Fatalf("TagIDs: %v", err)
	}
	if ids[0] != goID {
		t.Errorf("ids[0] = %q, want %q", ids[0], goID)
	}
	if ids[1] == "" || ids[1] == goID {
		t.Errorf("ids[1] = %q, want a new tag id", ids[1])
	}
}

func TestCategoryDisplayNames_DropsUnknownIDs(t *testing.T) {
	site := testutil.NewFakeSite(t)
	devID := site.AddCategory("Dev")
	r := NewResolver(site.Client())

	names, err := r.CategoryDisplayNames(context.Background(), []string{devID, "no-such-id"})
	if err != nil {
		t.Fatalf("CategoryDisplayNames: %v", err)
	}
	if len(names) != 1 || names[0] != "Dev" {
		t.Errorf("names = %v, want [Dev]", names)
	}
}

func TestTagDisplayNames_Empty(t *testing.T) {
	site := testutil.NewFakeSite(t)
	r := NewResolver(site.Client())

	names, err := r.TagDisplayNames(context.Background(), nil)
	if err != nil {
		t.Fatalf("TagDisplayNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}
