package workspace

import (
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func tempWorkspace(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempWorkspace(t)
	content := []byte("---\ntitle: Hello\n---\nBody\n")
	if err := s.Write("post.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("post.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestRead_MissingDocument(t *testing.T) {
	s := tempWorkspace(t)
	_, err := s.Read("absent.md")
	if !errors.Is(err, apperr.ErrNoDocument) {
		t.Errorf("err = %v, want ErrNoDocument", err)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempWorkspace(t)
	if err := s.Write("drafts/deep/post.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("drafts/deep/post.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteNew_FailsOnCollision(t *testing.T) {
	s := tempWorkspace(t)
	if err := s.WriteNew("post.md", []byte("first")); err != nil {
		t.Fatalf("WriteNew: %v", err)
	}
	err := s.WriteNew("post.md", []byte("second"))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.Read("post.md")
	if string(got) != "first" {
		t.Errorf("existing file was overwritten: %q", got)
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	s := tempWorkspace(t)
	if _, err := s.Read("../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if err := s.Write("../outside.md", []byte("x")); err == nil {
		t.Error("expected traversal write to be rejected")
	}
}

func TestSafePath_RejectsAbsolute(t *testing.T) {
	s := tempWorkspace(t)
	if _, err := s.Read("/etc/hosts"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}
