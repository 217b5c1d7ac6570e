package organize

import (
	"testing"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"youtube watch url", "https://www.youtube.com/watch?v=abc", "youtube"},
		{"youtube short link", "https://youtu.be/abc", "youtube"},
		{"bilibili", "https://www.bilibili.com/video/BV1", "bilibili"},
		{"bilibili short link", "https://b23.tv/xyz", "bilibili"},
		{"tiktok", "https://www.tiktok.com/@user/video/1", "tiktok"},
		{"twitter legacy domain", "https://twitter.com/user/status/1", "twitter"},
		{"x dot com", "https://x.com/user/status/1", "twitter"},
		{"tencent video", "https://v.qq.com/x/cover/abc.html", "tencent-video"},
		{"case insensitive", "HTTPS://WWW.YOUTUBE.COM/watch?v=abc", "youtube"},
		{"unknown source", "https://example.com/video.mp4", "other"},
		{"empty url", "", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.url); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestKnownDomains(t *testing.T) {
	domains := KnownDomains()

	yt, ok := domains["youtube"]
	if !ok {
		t.Fatal("expected youtube tag in known domains")
	}
	if len(yt) != 2 {
		t.Errorf("expected 2 youtube domains, got %v", yt)
	}
}
