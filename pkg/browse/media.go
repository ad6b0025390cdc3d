package browse

import (
	"net/url"
	"strings"
)

type Kind string

const (
	KindNone  Kind = "none"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".ogg"}

// Classify decides how a media URL should render. Anything non-empty
// that is not a known video extension is treated as an image.
func Classify(rawURL string) Kind {
	if rawURL == "" {
		return KindNone
	}

	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		path = parsed.Path
	} else {
		if idx := strings.IndexAny(path, "?#"); idx >= 0 {
			path = path[:idx]
		}
	}

	lower := strings.ToLower(path)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return KindVideo
		}
	}
	return KindImage
}
