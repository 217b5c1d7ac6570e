// Package extractor wraps the external media extraction engine behind a
// small capability interface. Site-specific extraction logic lives in
// the engine, not here.
package extractor

import (
	"context"
)

// FormatSelectorBest is the sentinel submitted when no explicit format
// was chosen. The adapter expands it into a priority chain.
const FormatSelectorBest = "best"

// Format describes one downloadable format of a media URL.
type Format struct {
	ID         string
	Resolution string
	Ext        string
	Note       string
	Filesize   int64
}

// Metadata is the read-only result of probing a media URL.
type Metadata struct {
	Title     string
	Thumbnail string
	Formats   []Format
}

// Progress is a point-in-time snapshot of an in-flight fetch.
type Progress struct {
	Percent         float64
	DownloadedBytes int64
	TotalBytes      int64
	Speed           string
	ETA             string
	Filename        string
}

// FetchRequest describes one byte transfer. OutputTemplate is an engine
// output template ("<dir>/<task-id>.%(ext)s"); the engine, not the
// caller, decides the final extension.
type FetchRequest struct {
	URL            string
	FormatID       string
	OutputTemplate string

	// OnMetadata is invoked once, before the byte transfer completes,
	// with the probed metadata. formatNote is non-empty only when an
	// explicit (non-"best") format was requested.
	OnMetadata func(meta *Metadata, formatNote string)

	// OnProgress receives best-effort progress snapshots.
	OnProgress func(p Progress)
}

// Extractor is the injected extraction engine capability.
type Extractor interface {
	// Probe queries format metadata without writing any file.
	Probe(ctx context.Context, url string) (*Metadata, error)

	// Fetch downloads the selected format to a path derived from the
	// output template. The returned path is the last filename the
	// engine reported and may be empty; callers must be prepared to
	// locate the artifact themselves.
	Fetch(ctx context.Context, req FetchRequest) (string, error)
}
