package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/uploads/", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.UnixMilli(1760000000000) }
	return s
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"leaf photo (1).jpg": "leaf_photo__1_.jpg",
		"tomato-leaf.png":    "tomato-leaf.png",
		"पत्ता.jpg":          "_____.jpg",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSave(t *testing.T) {
	s := newStore(t)
	up, err := s.Save(context.Background(), "diagnosis", "my leaf.png", pngHeader)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if up.Path != "diagnosis/1760000000000-my_leaf.png" {
		t.Errorf("path = %q", up.Path)
	}
	if up.URL != "/uploads/diagnosis/1760000000000-my_leaf.png" {
		t.Errorf("url = %q", up.URL)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir(), "diagnosis", "1760000000000-my_leaf.png"))
	if err != nil || string(data) != string(pngHeader) {
		t.Errorf("stored content mismatch: %v", err)
	}
}

func TestSaveDefaultsKindAndRejectsTraversal(t *testing.T) {
	s := newStore(t)
	up, err := s.Save(context.Background(), "", "../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if up.Path != "general/1760000000000-passwd" {
		t.Errorf("path = %q", up.Path)
	}

	up, err = s.Save(context.Background(), "../secret", "a.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(up.Path, "..") {
		t.Errorf("path escaped root: %q", up.Path)
	}
}

func TestSaveImageUsesDetectedExtension(t *testing.T) {
	s := newStore(t)
	up, err := s.SaveImage(context.Background(), "diagnoses", pngHeader)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if !strings.HasPrefix(up.Path, "diagnoses/1760000000000-") || !strings.HasSuffix(up.Path, ".png") {
		t.Errorf("path = %q", up.Path)
	}
}
