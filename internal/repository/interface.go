package repository

import (
	"context"

	"github.com/accio-dl/accio-downloader/internal/domain"
)

// TaskRepo defines the interface for task record storage. All
// operations are synchronous; per-id linearizability follows from the
// single-writer discipline the worker holds over a task for its run.
type TaskRepo interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateProgress(ctx context.Context, id string, p domain.Progress) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Task, error)
}
