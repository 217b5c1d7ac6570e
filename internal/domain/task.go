package domain

import (
	"time"
)

// TaskStatus represents the current state of a download Task.
type TaskStatus string

const (
	StatusPending     TaskStatus = "PENDING"
	StatusDownloading TaskStatus = "DOWNLOADING"
	StatusCompleted   TaskStatus = "COMPLETED"
	StatusFailed      TaskStatus = "FAILED"
)

// Terminal reports whether the status is final.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanAdvanceTo reports whether a transition from s to next is allowed.
// Valid edges are PENDING->DOWNLOADING, DOWNLOADING->COMPLETED,
// DOWNLOADING->FAILED and PENDING->FAILED (setup failure before the
// fetch starts). Status never regresses.
func (s TaskStatus) CanAdvanceTo(next TaskStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusDownloading || next == StatusFailed
	case StatusDownloading:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Task is the persisted record of a single download request.
// Created by the submission handler, mutated exclusively by the one
// lifecycle worker that owns its id for the whole run.
type Task struct {
	ID       string     `json:"id"`
	URL      string     `json:"url"`
	FormatID string     `json:"format_id"`
	Status   TaskStatus `json:"status"`

	Title      string `json:"title,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	FormatNote string `json:"format_note,omitempty"`

	LocalPath string `json:"local_path,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`

	Percent         int    `json:"percent,omitempty"`
	DownloadedBytes int64  `json:"downloaded_bytes,omitempty"`
	TotalBytes      int64  `json:"total_bytes,omitempty"`
	Speed           string `json:"speed,omitempty"`
	ETA             string `json:"eta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress carries best-effort download progress reported while a task
// is DOWNLOADING. Eventual consistency is acceptable here.
type Progress struct {
	Percent         int
	DownloadedBytes int64
	TotalBytes      int64
	Speed           string
	ETA             string
}
