package domain

import (
	"encoding/json"
	"time"
)

// SubmitURL accepts either a plain JSON string or a one-element array
// wrapping a string (iOS Shortcuts sends the latter). Surrounding
// non-URL text is dealt with later by validation.ExtractFirstURL.
type SubmitURL string

// UnmarshalJSON implements json.Unmarshaler.
func (u *SubmitURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = SubmitURL(s)
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		*u = ""
		return nil
	}
	if err := json.Unmarshal(list[0], &s); err != nil {
		// Non-string first element, keep its raw text.
		s = string(list[0])
	}
	*u = SubmitURL(s)
	return nil
}

// SubmitRequest is the body of POST /download. FormatID defaults to
// "best" when absent or empty.
type SubmitRequest struct {
	URL      SubmitURL `json:"url" validate:"required"`
	FormatID string    `json:"format_id"`
}

// ProbeRequest is the body of POST /parse.
type ProbeRequest struct {
	URL string `json:"url" validate:"required"`
}

// FormatInfo describes one downloadable format returned by a probe.
type FormatInfo struct {
	FormatID   string `json:"format_id"`
	Resolution string `json:"resolution,omitempty"`
	Ext        string `json:"ext"`
	Filesize   int64  `json:"filesize,omitempty"`
}

// ProbeResponse is the result of a metadata probe.
type ProbeResponse struct {
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Formats   []FormatInfo `json:"formats"`
}

// SubmitResponse acknowledges an accepted download submission.
type SubmitResponse struct {
	TaskID string     `json:"task_id"`
	Status TaskStatus `json:"status"`
}

// TaskView is the task projection returned by the listing endpoint,
// with a relative download link derived when the file is in place.
type TaskView struct {
	ID       string     `json:"id"`
	URL      string     `json:"url"`
	FormatID string     `json:"format_id"`
	Status   TaskStatus `json:"status"`

	Title      string `json:"title,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	FormatNote string `json:"format_note,omitempty"`
	ErrorMsg   string `json:"error_msg,omitempty"`
	LocalURL   string `json:"local_url,omitempty"`

	Percent         int    `json:"percent,omitempty"`
	DownloadedBytes int64  `json:"downloaded_bytes,omitempty"`
	TotalBytes      int64  `json:"total_bytes,omitempty"`
	Speed           string `json:"speed,omitempty"`
	ETA             string `json:"eta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthStatus is the advisory cookie report surfaced to operators. The
// presence of a cookie file and the platform domains it mentions say
// nothing about whether the cookies still work.
type AuthStatus struct {
	CookieFile string   `json:"cookie_file,omitempty"`
	Present    bool     `json:"present"`
	Platforms  []string `json:"platforms,omitempty"`
}
