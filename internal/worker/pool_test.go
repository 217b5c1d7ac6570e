package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accio-dl/accio-downloader/internal/config"
	"github.com/accio-dl/accio-downloader/internal/domain"
	errs "github.com/accio-dl/accio-downloader/internal/errors"
	"github.com/accio-dl/accio-downloader/internal/extractor"
	"github.com/accio-dl/accio-downloader/internal/organize"
	"github.com/accio-dl/accio-downloader/internal/repository"
)

// fakeExtractor mimics the engine: it writes a file derived from the
// output template, picking its own extension, and reports metadata.
type fakeExtractor struct {
	title      string
	ext        string
	failWith   string // non-empty makes Fetch fail with this message
	leavePart  bool   // also leave a .part intermediate behind
	sawFormats []string
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*extractor.Metadata, error) {
	return &extractor.Metadata{Title: f.title}, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, req extractor.FetchRequest) (string, error) {
	f.sawFormats = append(f.sawFormats, req.FormatID)

	if req.OnMetadata != nil {
		req.OnMetadata(&extractor.Metadata{Title: f.title, Thumbnail: "https://i.example/t.jpg"}, "")
	}
	if req.OnProgress != nil {
		req.OnProgress(extractor.Progress{Percent: 50, DownloadedBytes: 512, TotalBytes: 1024})
	}

	if f.failWith != "" {
		if f.leavePart {
			partial := strings.Replace(req.OutputTemplate, "%(ext)s", "mp4.part", 1)
			_ = os.WriteFile(partial, []byte("partial"), 0o644)
		}
		return "", &errs.ExtractionError{Op: "fetch", Err: errors.New(f.failWith)}
	}

	written := strings.Replace(req.OutputTemplate, "%(ext)s", f.ext, 1)
	if err := os.WriteFile(written, []byte("media bytes"), 0o644); err != nil {
		return "", err
	}
	return written, nil
}

func newTestPool(t *testing.T, ext extractor.Extractor) (*Pool, repository.TaskRepo, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		WorkerPoolSize: 1,
		QueueSize:      8,
		TempDir:        t.TempDir(),
		DownloadDir:    t.TempDir(),
	}

	store, err := repository.NewSQLiteTaskStore(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	pool := NewPool(store, ext, organize.NewOrganizer(cfg.DownloadDir, logger), nil, cfg, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})

	return pool, store, cfg
}

func submitTask(t *testing.T, repo repository.TaskRepo, url, formatID string) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:       uuid.New().String(),
		URL:      url,
		FormatID: formatID,
		Status:   domain.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func waitTerminal(t *testing.T, repo repository.TaskRepo, id string) *domain.Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		if task.Status.Terminal() {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("task never reached a terminal status")
	return nil
}

func TestPool_CompletedLifecycle(t *testing.T) {
	ext := &fakeExtractor{title: "An Interesting Clip", ext: "mp4"}
	pool, repo, cfg := newTestPool(t, ext)

	task := submitTask(t, repo, "https://youtube.com/watch?v=X", "best")
	pool.Enqueue(task.ID)

	got := waitTerminal(t, repo, task.ID)

	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Empty(t, got.ErrorMsg)
	assert.Equal(t, "An Interesting Clip", got.Title)
	assert.Equal(t, 100, got.Percent)

	date := time.Now().UTC().Format("2006-01-02")
	wantPath := filepath.Join(cfg.DownloadDir, "youtube", date, "An Interesting Clip.mp4")
	assert.Equal(t, wantPath, got.LocalPath)

	_, err := os.Stat(got.LocalPath)
	assert.NoError(t, err, "organized file must exist")

	// Temp area is empty once the file has been organized away.
	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPool_FailedLifecycle(t *testing.T) {
	ext := &fakeExtractor{title: "Broken", failWith: "Unsupported URL: https://nope.example", leavePart: true}
	pool, repo, cfg := newTestPool(t, ext)

	task := submitTask(t, repo, "https://nope.example/v", "best")
	pool.Enqueue(task.ID)

	got := waitTerminal(t, repo, task.ID)

	assert.Equal(t, domain.StatusFailed, got.Status)
	// The engine's message lands in the record verbatim.
	assert.Equal(t, "Unsupported URL: https://nope.example", got.ErrorMsg)
	assert.Empty(t, got.LocalPath)

	// Partial output is cleaned up on the failure path.
	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPool_NoOutputFileFails(t *testing.T) {
	// Fetch succeeds but produces nothing the worker can find.
	ext := &noOutputExtractor{}
	pool, repo, _ := newTestPool(t, ext)

	task := submitTask(t, repo, "https://example.com/v", "best")
	pool.Enqueue(task.ID)

	got := waitTerminal(t, repo, task.ID)

	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMsg, "downloaded file not found")
}

func TestPool_MissingTaskIsNoOp(t *testing.T) {
	ext := &fakeExtractor{title: "x", ext: "mp4"}
	pool, _, _ := newTestPool(t, ext)

	// Unknown id: the run stops silently instead of raising.
	pool.Enqueue(uuid.New().String())

	// Nothing to assert beyond "no panic"; give the worker a moment.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, ext.sawFormats)
}

func TestPool_TerminalExclusivity(t *testing.T) {
	okExt := &fakeExtractor{title: "ok", ext: "webm"}
	pool, repo, _ := newTestPool(t, okExt)

	completed := submitTask(t, repo, "https://youtu.be/a", "137")
	pool.Enqueue(completed.ID)
	got := waitTerminal(t, repo, completed.ID)

	// localPath non-empty iff COMPLETED; errorMsg non-empty iff FAILED.
	assert.NotEmpty(t, got.LocalPath)
	assert.Empty(t, got.ErrorMsg)
	assert.Equal(t, []string{"137"}, okExt.sawFormats, "explicit format id passed through")
}

type noOutputExtractor struct{}

func (noOutputExtractor) Probe(ctx context.Context, url string) (*extractor.Metadata, error) {
	return &extractor.Metadata{Title: "t"}, nil
}

func (noOutputExtractor) Fetch(ctx context.Context, req extractor.FetchRequest) (string, error) {
	return "", nil
}
