package organize

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestOrganizer(t *testing.T, root string) *Organizer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	return NewOrganizer(root, logger)
}

func writeRawFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write raw file: %v", err)
	}
	return path
}

func TestOrganizer_Organize(t *testing.T) {
	root := t.TempDir()
	tmp := t.TempDir()
	org := newTestOrganizer(t, root)

	raw := writeRawFile(t, tmp, "abc123.mp4")

	final, err := org.Organize("https://youtube.com/watch?v=X", "My Video", raw)
	if err != nil {
		t.Fatalf("Organize error: %v", err)
	}

	date := time.Now().UTC().Format("2006-01-02")
	want := filepath.Join(root, "youtube", date, "My Video.mp4")
	if final != want {
		t.Errorf("final path = %q, want %q", final, want)
	}

	if _, err := os.Stat(final); err != nil {
		t.Errorf("final file missing: %v", err)
	}
	if _, err := os.Stat(raw); !os.IsNotExist(err) {
		t.Errorf("raw file should have been moved away, stat err = %v", err)
	}
}

func TestOrganizer_CollisionGetsTimeSuffix(t *testing.T) {
	root := t.TempDir()
	tmp := t.TempDir()
	org := newTestOrganizer(t, root)

	// Pin distinct wall-clock seconds so the suffix is predictable.
	base := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	org.now = func() time.Time { return base }

	first := writeRawFile(t, tmp, "t1.mp4")
	p1, err := org.Organize("https://youtu.be/a", "Same Title", first)
	if err != nil {
		t.Fatalf("first Organize: %v", err)
	}

	org.now = func() time.Time { return base.Add(3 * time.Second) }

	second := writeRawFile(t, tmp, "t2.mp4")
	p2, err := org.Organize("https://youtu.be/a", "Same Title", second)
	if err != nil {
		t.Fatalf("second Organize: %v", err)
	}

	if p1 == p2 {
		t.Fatalf("expected distinct paths, both were %q", p1)
	}

	wantSuffix := "Same Title_103003.mp4"
	if filepath.Base(p2) != wantSuffix {
		t.Errorf("second file = %q, want %q", filepath.Base(p2), wantSuffix)
	}

	for _, p := range []string{p1, p2} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %q on disk: %v", p, err)
		}
	}
}

func TestOrganizer_UnknownPlatformAndEmptyTitle(t *testing.T) {
	root := t.TempDir()
	tmp := t.TempDir()
	org := newTestOrganizer(t, root)

	raw := writeRawFile(t, tmp, "x.webm")

	final, err := org.Organize("https://example.org/clip", "", raw)
	if err != nil {
		t.Fatalf("Organize error: %v", err)
	}

	date := time.Now().UTC().Format("2006-01-02")
	want := filepath.Join(root, "other", date, "video.webm")
	if final != want {
		t.Errorf("final path = %q, want %q", final, want)
	}
}

func TestMoveFile_CopyFallbackKeepsContent(t *testing.T) {
	dir := t.TempDir()
	src := writeRawFile(t, dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := moveFile(src, dst); err != nil {
		t.Fatalf("moveFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want %q", data, "payload")
	}
}
