package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

// Organizer relocates raw downloaded files into the organized layout
// <root>/<platform>/<YYYY-MM-DD>/<sanitized title><ext>.
type Organizer struct {
	root   string
	logger *slog.Logger

	// now is swappable for collision tests.
	now func() time.Time
}

// NewOrganizer creates an Organizer rooted at the download directory.
func NewOrganizer(root string, logger *slog.Logger) *Organizer {
	return &Organizer{
		root:   root,
		logger: logger,
		now:    time.Now,
	}
}

// Organize moves the file at rawPath to its final organized location
// and returns that path. The original extension is preserved. When the
// exact target already exists the name is disambiguated with a _HHMMSS
// suffix (current UTC time) rather than overwritten; two tasks landing
// the same title in the same second can still collide, which is an
// accepted limitation of the scheme.
func (o *Organizer) Organize(url, title, rawPath string) (string, error) {
	ext := filepath.Ext(rawPath)
	platform := DetectPlatform(url)
	nowUTC := o.now().UTC()
	dateStr := nowUTC.Format("2006-01-02")
	safeTitle := SanitizeTitle(title, DefaultMaxTitleLength)

	finalDir := filepath.Join(o.root, platform, dateStr)
	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		return "", &errs.OrganizeError{Path: finalDir, Err: err}
	}

	finalPath := filepath.Join(finalDir, safeTitle+ext)
	if _, err := os.Stat(finalPath); err == nil {
		ts := nowUTC.Format("150405")
		finalPath = filepath.Join(finalDir, fmt.Sprintf("%s_%s%s", safeTitle, ts, ext))
	}

	if err := moveFile(rawPath, finalPath); err != nil {
		return "", &errs.OrganizeError{Path: finalPath, Err: err}
	}

	o.logger.Info("file organized",
		"platform", platform,
		"final_path", finalPath,
	)
	return finalPath, nil
}

// moveFile renames src to dst, falling back to copy+remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy data: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close target: %w", err)
	}

	return os.Remove(src)
}
