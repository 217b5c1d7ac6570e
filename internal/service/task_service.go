package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/accio-dl/accio-downloader/internal/config"
	"github.com/accio-dl/accio-downloader/internal/domain"
	"github.com/accio-dl/accio-downloader/internal/extractor"
	"github.com/accio-dl/accio-downloader/internal/metrics"
	"github.com/accio-dl/accio-downloader/internal/repository"
	"github.com/accio-dl/accio-downloader/internal/validation"
)

// listLimit caps the task listing to the most recent records.
const listLimit = 50

// Enqueuer hands accepted task ids to the lifecycle workers.
type Enqueuer interface {
	Enqueue(taskID string)
}

// TaskService implements the submission, probe and listing operations
// behind the HTTP API.
type TaskService struct {
	repo   repository.TaskRepo
	ext    extractor.Extractor
	pool   Enqueuer
	cfg    *config.Config
	logger *slog.Logger

	// Concurrent probes of the same URL collapse into one engine call.
	probeGroup singleflight.Group
}

// NewTaskService wires the service with its collaborators.
func NewTaskService(
	repo repository.TaskRepo,
	ext extractor.Extractor,
	pool Enqueuer,
	cfg *config.Config,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		repo:   repo,
		ext:    ext,
		pool:   pool,
		cfg:    cfg,
		logger: logger,
	}
}

// Probe queries downloadable format metadata for a URL without
// creating any task.
func (s *TaskService) Probe(ctx context.Context, rawURL string) (*domain.ProbeResponse, error) {
	url, err := validation.NormalizeSubmission(rawURL)
	if err != nil {
		return nil, err
	}

	metrics.ProbesTotal.Inc()

	v, err, shared := s.probeGroup.Do(url, func() (any, error) {
		return s.ext.Probe(ctx, url)
	})
	if err != nil {
		metrics.ProbesFailed.Inc()
		return nil, err
	}
	if shared {
		s.logger.Debug("probe deduplicated", "url", url)
	}

	meta := v.(*extractor.Metadata)
	resp := &domain.ProbeResponse{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Formats:   make([]domain.FormatInfo, 0, len(meta.Formats)),
	}
	for _, f := range meta.Formats {
		resp.Formats = append(resp.Formats, domain.FormatInfo{
			FormatID:   f.ID,
			Resolution: f.Resolution,
			Ext:        f.Ext,
			Filesize:   f.Filesize,
		})
	}
	return resp, nil
}

// Submit validates the submission, creates a PENDING task record and
// enqueues it for out-of-band processing. Returns before any download
// work happens.
func (s *TaskService) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.Task, error) {
	url, err := validation.NormalizeSubmission(string(req.URL))
	if err != nil {
		return nil, err
	}

	formatID := req.FormatID
	if formatID == "" {
		formatID = extractor.FormatSelectorBest
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		URL:       url,
		FormatID:  formatID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	metrics.TasksCreated.Inc()
	s.logger.Info("task submitted", "task_id", task.ID, "url", url, "format_id", formatID)

	s.pool.Enqueue(task.ID)
	return task, nil
}

// ListTasks returns up to 50 most-recently-created tasks projected for
// clients, including a relative download link once a file is in place.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.TaskView, error) {
	tasks, err := s.repo.ListRecent(ctx, listLimit)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, s.toView(t))
	}
	return views, nil
}

// AuthStatus reports the advisory cookie state.
func (s *TaskService) AuthStatus() domain.AuthStatus {
	return extractor.ReadAuthStatus(s.cfg.CookiesFile)
}

func (s *TaskService) toView(t *domain.Task) domain.TaskView {
	view := domain.TaskView{
		ID:              t.ID,
		URL:             t.URL,
		FormatID:        t.FormatID,
		Status:          t.Status,
		Title:           t.Title,
		Thumbnail:       t.Thumbnail,
		FormatNote:      t.FormatNote,
		ErrorMsg:        t.ErrorMsg,
		Percent:         t.Percent,
		DownloadedBytes: t.DownloadedBytes,
		TotalBytes:      t.TotalBytes,
		Speed:           t.Speed,
		ETA:             t.ETA,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	if t.LocalPath != "" {
		if rel, err := filepath.Rel(s.cfg.DownloadDir, t.LocalPath); err == nil {
			view.LocalURL = "/downloads/" + filepath.ToSlash(rel)
		}
	}
	return view
}
