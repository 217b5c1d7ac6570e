package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	ytdlp "github.com/lrstanley/go-ytdlp"

	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// Fixed inter-request delay applied to every engine call.
	requestSleepSeconds = 1.5

	// "best" expands to: combined best video+audio MP4, then best MP4,
	// then whatever the engine ranks best.
	bestFormatChain = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

	progressInterval = 500 * time.Millisecond
)

// YtdlpExtractor drives the yt-dlp engine through go-ytdlp.
type YtdlpExtractor struct {
	cookiesFile string
	logger      *slog.Logger
}

// NewYtdlpExtractor creates the adapter. cookiesFile may point at a
// Netscape-format cookie file; it is only used when the file exists.
func NewYtdlpExtractor(cookiesFile string, logger *slog.Logger) *YtdlpExtractor {
	return &YtdlpExtractor{
		cookiesFile: cookiesFile,
		logger:      logger,
	}
}

func (e *YtdlpExtractor) baseCommand() *ytdlp.Command {
	cmd := ytdlp.New()
	cmd.Newline().
		GeoBypass().
		SleepRequests(requestSleepSeconds).
		UserAgent(browserUserAgent)

	if path := CookieFilePath(e.cookiesFile); path != "" {
		cmd.Cookies(path)
	}
	return cmd
}

// Probe performs a read-only metadata query. Entries without a video
// stream are excluded from the returned format list.
func (e *YtdlpExtractor) Probe(ctx context.Context, url string) (*Metadata, error) {
	cmd := e.baseCommand()
	cmd.SkipDownload().
		DumpSingleJSON().
		NoOverwrites().
		Quiet()

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, &errs.ExtractionError{Op: "probe", Err: err}
	}

	meta, err := parseDumpJSON(result.Stdout)
	if err != nil {
		return nil, &errs.ExtractionError{Op: "probe", Err: err}
	}

	e.logger.Debug("probe completed", "url", url, "formats", len(meta.Formats))
	return meta, nil
}

// Fetch downloads the selected format. As a side effect it probes the
// URL once and reports metadata through req.OnMetadata before bytes
// finish, so the caller can persist title and thumbnail early. Partial
// output files from a failed fetch are left on disk; cleanup is the
// caller's failure path.
func (e *YtdlpExtractor) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	meta, err := e.Probe(ctx, req.URL)
	if err != nil {
		return "", err
	}

	selector := req.FormatID
	formatNote := ""
	if selector == "" || selector == FormatSelectorBest {
		selector = bestFormatChain
	} else {
		formatNote = noteForFormat(meta, req.FormatID)
	}

	if req.OnMetadata != nil {
		req.OnMetadata(meta, formatNote)
	}

	cmd := e.baseCommand()
	cmd.Format(selector).
		Output(req.OutputTemplate).
		NoOverwrites()

	var lastFilename string
	cmd.ProgressFunc(progressInterval, func(prog ytdlp.ProgressUpdate) {
		if prog.Filename != "" {
			lastFilename = prog.Filename
		}
		if req.OnProgress == nil {
			return
		}

		percent := prog.Percent()
		if percent == 0 && prog.TotalBytes > 0 && prog.DownloadedBytes > 0 {
			percent = float64(prog.DownloadedBytes) / float64(prog.TotalBytes) * 100
		}

		req.OnProgress(Progress{
			Percent:         percent,
			DownloadedBytes: int64(prog.DownloadedBytes),
			TotalBytes:      int64(prog.TotalBytes),
			Speed:           formatSpeed(int64(prog.DownloadedBytes), prog.Duration()),
			ETA:             formatETA(prog.ETA()),
			Filename:        prog.Filename,
		})
	})

	e.logger.Info("fetch started", "url", req.URL, "format", selector)
	if _, err := cmd.Run(ctx, req.URL); err != nil {
		return "", &errs.ExtractionError{Op: "fetch", Err: err}
	}

	return lastFilename, nil
}

// noteForFormat builds a human-readable note for an explicitly
// requested format id.
func noteForFormat(meta *Metadata, formatID string) string {
	for _, f := range meta.Formats {
		if f.ID != formatID {
			continue
		}
		if f.Note != "" {
			return f.Note
		}
		return f.Resolution
	}
	return formatID
}

// dump-single-json subset the adapter cares about. Filesize arrives as
// null, an integer, or occasionally a float.
type probeInfo struct {
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	Formats   []probeEntry `json:"formats"`
}

type probeEntry struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Filesize   float64 `json:"filesize"`
	VCodec     string  `json:"vcodec"`
	FormatNote string  `json:"format_note"`
}

func parseDumpJSON(stdout string) (*Metadata, error) {
	var info probeInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("decode engine output: %w", err)
	}

	meta := &Metadata{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
	}
	if meta.Title == "" {
		meta.Title = "Unknown Title"
	}

	for _, f := range info.Formats {
		if f.VCodec == "none" {
			continue
		}
		resolution := f.Resolution
		if resolution == "" {
			resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
		}
		meta.Formats = append(meta.Formats, Format{
			ID:         f.FormatID,
			Resolution: resolution,
			Ext:        f.Ext,
			Note:       f.FormatNote,
			Filesize:   int64(f.Filesize),
		})
	}

	return meta, nil
}

func formatSpeed(downloaded int64, elapsed time.Duration) string {
	if downloaded <= 0 || elapsed <= 0 {
		return ""
	}
	bps := float64(downloaded) / elapsed.Seconds()
	return humanize.Bytes(uint64(bps)) + "/s"
}

func formatETA(eta time.Duration) string {
	secs := int(eta.Seconds())
	if secs <= 0 {
		return ""
	}
	if secs >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// CookieFilePath returns path when a readable cookie file exists there,
// otherwise "".
func CookieFilePath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
