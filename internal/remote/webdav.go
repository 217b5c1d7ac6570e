// Package remote streams completed downloads to a remote store. It is
// an optional follow-up stage after a task completes, decoupled from
// the lifecycle state machine.
package remote

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/studio-b12/gowebdav"

	"github.com/accio-dl/accio-downloader/internal/config"
	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

// uploadChunkSize bounds the memory held per upload; the file is
// streamed through this buffer rather than loaded whole.
const uploadChunkSize = 8 * 1024 * 1024

// Syncer uploads a local file to remote storage and removes the local
// copy on success.
type Syncer interface {
	Upload(ctx context.Context, localPath, remoteName string) error
}

// WebDAVSyncer ships files to a WebDAV endpoint.
type WebDAVSyncer struct {
	client *gowebdav.Client
	root   string
	logger *slog.Logger

	mkdirOnce sync.Once
	mkdirErr  error
}

// NewWebDAVSyncer builds a syncer from configuration. The remote root
// directory is created lazily before the first upload.
func NewWebDAVSyncer(cfg *config.Config, logger *slog.Logger) *WebDAVSyncer {
	return &WebDAVSyncer{
		client: gowebdav.NewClient(cfg.WebDAVURL, cfg.WebDAVUser, cfg.WebDAVPassword),
		root:   cfg.WebDAVRoot,
		logger: logger,
	}
}

// Upload streams the file at localPath to <root>/<remoteName> and
// deletes the local copy on success. On any failure the local file is
// left intact for retry or inspection and a TransferError is returned.
func (s *WebDAVSyncer) Upload(ctx context.Context, localPath, remoteName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.ensureRoot(); err != nil {
		return &errs.TransferError{Remote: s.root, Err: err}
	}

	remotePath := path.Join(s.root, remoteName)

	f, err := os.Open(localPath)
	if err != nil {
		return &errs.TransferError{Remote: remotePath, Err: fmt.Errorf("open local file: %w", err)}
	}

	reader := bufio.NewReaderSize(f, uploadChunkSize)
	if err := s.client.WriteStream(remotePath, reader, 0o644); err != nil {
		f.Close()
		return &errs.TransferError{Remote: remotePath, Err: err}
	}
	f.Close()

	if err := os.Remove(localPath); err != nil {
		s.logger.Warn("uploaded but failed to remove local file", "local_path", localPath, "error", err)
	}

	s.logger.Info("file uploaded", "remote_path", remotePath)
	return nil
}

// ensureRoot performs the idempotent check-then-create of the remote
// target directory, once per process.
func (s *WebDAVSyncer) ensureRoot() error {
	s.mkdirOnce.Do(func() {
		if _, err := s.client.Stat(s.root); err == nil {
			return
		}
		if err := s.client.MkdirAll(s.root, 0o755); err != nil {
			s.mkdirErr = fmt.Errorf("create remote directory %s: %w", s.root, err)
		}
	})
	return s.mkdirErr
}
