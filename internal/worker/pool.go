// Package worker runs the download task lifecycle. Each queued task id
// is handed to exactly one worker goroutine, which owns the record for
// the full PENDING -> DOWNLOADING -> COMPLETED|FAILED run; no second
// writer ever exists for the same id.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/accio-dl/accio-downloader/internal/config"
	"github.com/accio-dl/accio-downloader/internal/extractor"
	"github.com/accio-dl/accio-downloader/internal/organize"
	"github.com/accio-dl/accio-downloader/internal/remote"
	"github.com/accio-dl/accio-downloader/internal/repository"
)

// Pool consumes task ids from a queue with a fixed set of workers.
type Pool struct {
	repo      repository.TaskRepo
	ext       extractor.Extractor
	organizer *organize.Organizer
	syncer    remote.Syncer
	cfg       *config.Config
	logger    *slog.Logger

	queue chan string
	wg    sync.WaitGroup
}

// NewPool creates the pool and starts its workers. syncer may be nil
// when remote sync is not configured.
func NewPool(
	repo repository.TaskRepo,
	ext extractor.Extractor,
	organizer *organize.Organizer,
	syncer remote.Syncer,
	cfg *config.Config,
	logger *slog.Logger,
) *Pool {
	p := &Pool{
		repo:      repo,
		ext:       ext,
		organizer: organizer,
		syncer:    syncer,
		cfg:       cfg,
		logger:    logger,
		queue:     make(chan string, cfg.QueueSize),
	}

	for i := 0; i < cfg.WorkerPoolSize; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			for taskID := range p.queue {
				p.run(taskID)
			}
			p.logger.Debug("worker stopped", "worker_id", workerID)
		}(i + 1)
	}

	logger.Info("lifecycle worker pool started", "workers", cfg.WorkerPoolSize)
	return p
}

// Enqueue hands a task id to the pool. The caller does not wait for the
// run; polling the task record is the only way to observe the outcome.
func (p *Pool) Enqueue(taskID string) {
	p.queue <- taskID
}

// Shutdown stops accepting work and waits for in-flight runs. Once a
// run has started it goes to completion or failure; there is no
// cancellation path.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool drained")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timed out")
		return ctx.Err()
	}
}
