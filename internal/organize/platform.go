package organize

import (
	"strings"
)

// PlatformOther is the catch-all tag for URLs with no table match.
const PlatformOther = "other"

// domainTag maps a domain substring to its platform tag.
type domainTag struct {
	Domain string
	Tag    string
}

// domainTable is matched in order, first hit wins. A slice rather than
// a map: classification must be deterministic across calls.
var domainTable = []domainTag{
	{"bilibili.com", "bilibili"},
	{"b23.tv", "bilibili"},
	{"youtube.com", "youtube"},
	{"youtu.be", "youtube"},
	{"tiktok.com", "tiktok"},
	{"douyin.com", "douyin"},
	{"xiaohongshu.com", "xiaohongshu"},
	{"xhslink.com", "xiaohongshu"},
	{"twitter.com", "twitter"},
	{"x.com", "twitter"},
	{"instagram.com", "instagram"},
	{"weibo.com", "weibo"},
	{"v.qq.com", "tencent-video"},
	{"iqiyi.com", "iqiyi"},
	{"youku.com", "youku"},
	{"twitch.tv", "twitch"},
	{"nicovideo.jp", "nicovideo"},
}

// DetectPlatform classifies a URL into a platform tag used purely for
// directory routing. Matching is case-insensitive substring against a
// static table; unknown sources map to "other".
func DetectPlatform(url string) string {
	lower := strings.ToLower(url)
	for _, entry := range domainTable {
		if strings.Contains(lower, entry.Domain) {
			return entry.Tag
		}
	}
	return PlatformOther
}

// KnownDomains returns the domain substrings the classifier recognizes,
// keyed by platform tag. Used by the cookie advisory report.
func KnownDomains() map[string][]string {
	out := make(map[string][]string)
	for _, entry := range domainTable {
		out[entry.Tag] = append(out[entry.Tag], entry.Domain)
	}
	return out
}
