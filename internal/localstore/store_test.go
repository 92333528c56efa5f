package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "studio.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("expected empty store")
	}
}

func TestSet_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("dear_me_settings", []byte(`{"provider":"OPENAI"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Get("dear_me_settings")
	if !ok {
		t.Fatal("expected key after reopen")
	}
	if string(got) != `{"provider":"OPENAI"}` {
		t.Errorf("got %s", got)
	}
}

func TestSet_NonJSONValueIsQuoted(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "studio.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("k", []byte("not json {")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := s.Get("k")
	if string(got) != `"not json {"` {
		t.Errorf("got %s", got)
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("k", []byte(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Get("k"); ok {
		t.Error("expected key to be gone after reopen")
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for corrupt store file")
	}
}
