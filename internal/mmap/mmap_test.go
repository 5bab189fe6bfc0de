package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestOpen(t *testing.T) {
	payload := []byte("hello columnar world")
	m, err := Open(writeTemp(t, payload))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if m.Len() != len(payload) {
		t.Errorf("expected len %d, got %d", len(payload), m.Len())
	}
	if string(m.Bytes()) != string(payload) {
		t.Errorf("mapped bytes differ from file contents")
	}
}

func TestOpenEmptyFile(t *testing.T) {
	m, err := Open(writeTemp(t, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if m.Len() != 0 {
		t.Errorf("expected empty mapping, got len %d", m.Len())
	}
}

func TestCloseIdempotent(t *testing.T) {
	m, err := Open(writeTemp(t, []byte{1, 2, 3}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if m.Bytes() != nil {
		t.Errorf("expected nil bytes after close")
	}
}
