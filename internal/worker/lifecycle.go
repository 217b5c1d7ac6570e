package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/accio-dl/accio-downloader/internal/domain"
	errs "github.com/accio-dl/accio-downloader/internal/errors"
	"github.com/accio-dl/accio-downloader/internal/extractor"
	"github.com/accio-dl/accio-downloader/internal/metrics"
)

// Intermediate files the engine writes while a download is in flight.
var skippedExtensions = []string{".part", ".ytdl"}

// run executes the full lifecycle of one task. Errors never escape:
// every failure ends up in the task's error_msg with status FAILED.
func (p *Pool) run(taskID string) {
	// Runs outlive the submitting request; no cancellation path exists
	// once a run begins.
	ctx := context.Background()

	task, err := p.repo.GetByID(ctx, taskID)
	if errors.Is(err, errs.ErrTaskNotFound) {
		// Nobody is left to observe this; treat as already handled.
		p.logger.Debug("task missing at start of run", "task_id", taskID)
		return
	}
	if err != nil {
		p.logger.Error("failed to load task", "task_id", taskID, "error", err)
		return
	}
	if task.Status != domain.StatusPending {
		p.logger.Warn("task not pending, skipping run", "task_id", taskID, "status", task.Status)
		return
	}

	task.Status = domain.StatusDownloading
	if err := p.repo.Update(ctx, task); err != nil {
		p.logger.Error("failed to mark task downloading", "task_id", taskID, "error", err)
		return
	}

	start := time.Now()

	finalPath, err := p.download(ctx, task)
	if err != nil {
		p.fail(ctx, task, err)
		return
	}

	task.LocalPath = finalPath
	task.Status = domain.StatusCompleted
	task.Percent = 100
	if err := p.repo.Update(ctx, task); err != nil {
		p.logger.Error("failed to persist completion", "task_id", taskID, "error", err)
		return
	}

	metrics.TasksCompleted.Inc()
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	if info, err := os.Stat(finalPath); err == nil {
		metrics.DownloadBytes.Add(float64(info.Size()))
	}

	p.logger.Info("task completed",
		"task_id", task.ID,
		"local_path", finalPath,
		"duration", time.Since(start),
	)

	if p.syncer != nil {
		p.syncRemote(ctx, task)
	}
}

// download fetches the bytes into the temp area, locates the produced
// artifact and relocates it into the organized layout.
func (p *Pool) download(ctx context.Context, task *domain.Task) (string, error) {
	outputTemplate := filepath.Join(p.cfg.TempDir, task.ID+".%(ext)s")

	lastPercent := -1.0

	reported, err := p.ext.Fetch(ctx, extractor.FetchRequest{
		URL:            task.URL,
		FormatID:       task.FormatID,
		OutputTemplate: outputTemplate,
		OnMetadata: func(meta *extractor.Metadata, formatNote string) {
			task.Title = meta.Title
			task.Thumbnail = meta.Thumbnail
			task.FormatNote = formatNote
			if err := p.repo.Update(ctx, task); err != nil {
				p.logger.Warn("failed to persist metadata", "task_id", task.ID, "error", err)
			}
		},
		OnProgress: func(pr extractor.Progress) {
			// Progress is best-effort; skip sub-percent churn.
			if pr.Percent-lastPercent < 1.0 {
				return
			}
			lastPercent = pr.Percent
			if err := p.repo.UpdateProgress(ctx, task.ID, domain.Progress{
				Percent:         int(pr.Percent),
				DownloadedBytes: pr.DownloadedBytes,
				TotalBytes:      pr.TotalBytes,
				Speed:           pr.Speed,
				ETA:             pr.ETA,
			}); err != nil {
				p.logger.Debug("progress update failed", "task_id", task.ID, "error", err)
			}
		},
	})
	if err != nil {
		return "", err
	}

	rawPath, err := p.locateArtifact(task.ID, reported)
	if err != nil {
		return "", err
	}

	title := task.Title
	if title == "" {
		title = "video"
	}
	return p.organizer.Organize(task.URL, title, rawPath)
}

// locateArtifact finds the file the engine produced. The engine picks
// the final extension, so the exact path is unknown ahead of time; the
// temp dir is scanned for the task-id prefix instead, skipping
// in-flight intermediates.
func (p *Pool) locateArtifact(taskID, reported string) (string, error) {
	entries, err := os.ReadDir(p.cfg.TempDir)
	if err != nil {
		return "", fmt.Errorf("read temp dir: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), taskID) {
			continue
		}
		if isIntermediate(entry.Name()) {
			continue
		}
		candidates = append(candidates, filepath.Join(p.cfg.TempDir, entry.Name()))
	}

	if len(candidates) == 0 {
		if reported != "" {
			if _, err := os.Stat(reported); err == nil {
				return reported, nil
			}
		}
		return "", errors.New("downloaded file not found after extraction")
	}

	sort.Strings(candidates)
	return candidates[0], nil
}

func isIntermediate(name string) bool {
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// fail records the failure on the task and cleans up any partial
// output left in the temp area.
func (p *Pool) fail(ctx context.Context, task *domain.Task, cause error) {
	p.cleanupTemp(task.ID)

	if !task.Status.CanAdvanceTo(domain.StatusFailed) {
		p.logger.Warn("refusing status regression", "task_id", task.ID, "status", task.Status)
		return
	}

	// The engine's message goes into the record verbatim.
	msg := cause.Error()
	var exErr *errs.ExtractionError
	if errors.As(cause, &exErr) {
		msg = exErr.Err.Error()
	}

	task.Status = domain.StatusFailed
	task.ErrorMsg = msg
	task.LocalPath = ""
	if err := p.repo.Update(ctx, task); err != nil {
		p.logger.Error("failed to persist failure", "task_id", task.ID, "error", err)
	}

	metrics.TasksFailed.Inc()
	p.logger.Error("task failed", "task_id", task.ID, "url", task.URL, "error", cause)
}

func (p *Pool) cleanupTemp(taskID string) {
	entries, err := os.ReadDir(p.cfg.TempDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), taskID) {
			continue
		}
		path := filepath.Join(p.cfg.TempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			p.logger.Warn("failed to remove partial file", "path", path, "error", err)
		}
	}
}

// syncRemote streams a completed file to the remote store. Remote sync
// is a follow-up stage: its failure is logged and counted but never
// reverts the task out of COMPLETED.
func (p *Pool) syncRemote(ctx context.Context, task *domain.Task) {
	metrics.UploadsTotal.Inc()

	remoteName := filepath.Base(task.LocalPath)
	if err := p.syncer.Upload(ctx, task.LocalPath, remoteName); err != nil {
		metrics.UploadsFailed.Inc()
		p.logger.Error("remote sync failed", "task_id", task.ID, "local_path", task.LocalPath, "error", err)
		return
	}

	p.logger.Info("remote sync completed", "task_id", task.ID, "remote_name", remoteName)
}
