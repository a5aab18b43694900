package objectstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads", nil)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	url, err := l.Put(context.Background(), "2025/cover.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/uploads/2025/cover.png" {
		t.Fatalf("url=%q", url)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "2025", "cover.png"))
	if err != nil || string(raw) != "png-bytes" {
		t.Fatalf("read back: %q %v", raw, err)
	}

	if err := l.Delete(context.Background(), "2025/cover.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete(context.Background(), "2025/cover.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound got %v", err)
	}
}

func TestLocalRejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/uploads", nil)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	for _, key := range []string{"../etc/passwd", "a/../../b", "", "a//b"} {
		if _, err := l.Put(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("key %q: expected error", key)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate default: %v", err)
	}
	if cfg.Mode != ModeLocal || cfg.PublicPrefix != "/uploads" {
		t.Fatalf("defaults: %+v", cfg)
	}

	bad := Config{Mode: "s3"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invalid mode error")
	}

	noBucket := Config{Mode: ModeGCS}
	if err := noBucket.Validate(); err == nil {
		t.Fatalf("expected missing bucket error")
	}

	emu := Config{Mode: ModeGCSEmulator, Bucket: "b", EmulatorHost: "fake-gcs:4443"}
	if err := emu.Validate(); err == nil {
		t.Fatalf("expected relative emulator host error")
	}
}

func TestPublicObjectURL(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"gcs default", publicObjectURL(ModeGCS, "bkt", "uploads/a.png", "", "", ""), "https://storage.googleapis.com/bkt/uploads/a.png"},
		{"cdn", publicObjectURL(ModeGCS, "bkt", "a.png", "cdn.example.com", "", ""), "https://cdn.example.com/a.png"},
		{"public base", publicObjectURL(ModeGCS, "bkt", "a.png", "", "http://localhost:4443", ""), "http://localhost:4443/bkt/a.png"},
		{"emulator", publicObjectURL(ModeGCSEmulator, "bkt", "x/a.png", "", "", "http://fake-gcs:4443"), "http://fake-gcs:4443/storage/v1/b/bkt/o/x%2Fa.png?alt=media"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, tc.got)
		}
	}
}
