package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("a"); ok {
		t.Fatal("empty store returned a value")
	}
	if err := m.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := m.Get("a"); !ok || v != "1" {
		t.Errorf("Get = %q, %v; want \"1\", true", v, ok)
	}
}

func TestFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := Open(path)
	if err := f.Set("geoparty.selectedPlayer.r1", "Alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	again := Open(path)
	if v, ok := again.Get("geoparty.selectedPlayer.r1"); !ok || v != "Alice" {
		t.Errorf("Get after reopen = %q, %v; want Alice, true", v, ok)
	}
}

func TestFileIgnoresCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := Open(path)
	if _, ok := f.Get("anything"); ok {
		t.Error("corrupt file produced a value")
	}
	if err := f.Set("k", "v"); err != nil {
		t.Errorf("Set over corrupt file: %v", err)
	}
}
