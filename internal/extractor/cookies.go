package extractor

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/accio-dl/accio-downloader/internal/domain"
	"github.com/accio-dl/accio-downloader/internal/organize"
)

// ReadAuthStatus inspects the Netscape-format cookie file at path and
// reports which known platforms have cookies present. Advisory only:
// a listed platform means its domain appears in the file, not that the
// cookies are valid.
func ReadAuthStatus(path string) domain.AuthStatus {
	status := domain.AuthStatus{CookieFile: path}

	f, err := os.Open(path)
	if err != nil {
		return status
	}
	defer f.Close()

	status.Present = true

	tags := make(map[string]bool)
	known := organize.KnownDomains()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Netscape format: the cookie domain is the first tab field.
		fields := strings.SplitN(line, "\t", 2)
		cookieDomain := strings.ToLower(fields[0])

		for tag, domains := range known {
			if tags[tag] {
				continue
			}
			for _, d := range domains {
				if strings.Contains(cookieDomain, d) {
					tags[tag] = true
					break
				}
			}
		}
	}

	for tag := range tags {
		status.Platforms = append(status.Platforms, tag)
	}
	sort.Strings(status.Platforms)
	return status
}
