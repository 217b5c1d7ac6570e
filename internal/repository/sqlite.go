package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/accio-dl/accio-downloader/internal/domain"
	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

// SQLiteTaskStore persists task records in a SQLite database.
type SQLiteTaskStore struct {
	db *sql.DB
}

// NewSQLiteTaskStore opens (or creates) the database at path and
// applies pending schema migrations.
func NewSQLiteTaskStore(path string) (*SQLiteTaskStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent workers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("task store initialized", "database", path)
	return &SQLiteTaskStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteTaskStore) Close() error {
	return s.db.Close()
}

// Create inserts a new task record.
func (s *SQLiteTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks
		(id, url, format_id, status, title, thumbnail, format_note, local_path, error_msg,
		 percent, downloaded_bytes, total_bytes, speed, eta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.URL, task.FormatID, task.Status,
		nullable(task.Title), nullable(task.Thumbnail), nullable(task.FormatNote),
		nullable(task.LocalPath), nullable(task.ErrorMsg),
		task.Percent, task.DownloadedBytes, task.TotalBytes,
		nullable(task.Speed), nullable(task.ETA),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	slog.Debug("task created", "task_id", task.ID)
	return nil
}

// GetByID fetches a single task, returning ErrTaskNotFound when absent.
func (s *SQLiteTaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, selectColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// Update persists the full mutable field set of a task and refreshes
// updated_at.
func (s *SQLiteTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET
		status = ?, title = ?, thumbnail = ?, format_note = ?,
		local_path = ?, error_msg = ?,
		percent = ?, downloaded_bytes = ?, total_bytes = ?, speed = ?, eta = ?,
		updated_at = ?
		WHERE id = ?`,
		task.Status, nullable(task.Title), nullable(task.Thumbnail), nullable(task.FormatNote),
		nullable(task.LocalPath), nullable(task.ErrorMsg),
		task.Percent, task.DownloadedBytes, task.TotalBytes,
		nullable(task.Speed), nullable(task.ETA),
		task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return errs.ErrTaskNotFound
	}

	slog.Debug("task updated", "task_id", task.ID, "status", task.Status)
	return nil
}

// UpdateProgress writes the best-effort progress fields for a task.
func (s *SQLiteTaskStore) UpdateProgress(ctx context.Context, id string, p domain.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `UPDATE tasks SET
		percent = ?, downloaded_bytes = ?, total_bytes = ?, speed = ?, eta = ?,
		updated_at = ?
		WHERE id = ?`,
		p.Percent, p.DownloadedBytes, p.TotalBytes,
		nullable(p.Speed), nullable(p.ETA),
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// ListRecent returns up to limit tasks, newest-created first.
func (s *SQLiteTaskStore) ListRecent(ctx context.Context, limit int) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM tasks ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

const selectColumns = `SELECT id, url, format_id, status, title, thumbnail, format_note,
	local_path, error_msg, percent, downloaded_bytes, total_bytes, speed, eta,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                            domain.Task
		title, thumbnail, formatNote    sql.NullString
		localPath, errorMsg, speed, eta sql.NullString
		percent                         sql.NullInt64
		downloadedBytes, totalBytes     sql.NullInt64
	)

	err := row.Scan(
		&task.ID, &task.URL, &task.FormatID, &task.Status,
		&title, &thumbnail, &formatNote,
		&localPath, &errorMsg,
		&percent, &downloadedBytes, &totalBytes, &speed, &eta,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Title = title.String
	task.Thumbnail = thumbnail.String
	task.FormatNote = formatNote.String
	task.LocalPath = localPath.String
	task.ErrorMsg = errorMsg.String
	task.Percent = int(percent.Int64)
	task.DownloadedBytes = downloadedBytes.Int64
	task.TotalBytes = totalBytes.Int64
	task.Speed = speed.String
	task.ETA = eta.String

	return &task, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
