package quality

import "regexp"

var youtubeURL = regexp.MustCompile(
	`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/` +
		`(watch\?v=|embed/|v/|.+\?v=)?([^&=%\?]{11})`,
)

// ValidateURL reports whether s looks like a YouTube video URL.
// This is a syntactic prefix check; the video may still not exist.
func ValidateURL(s string) bool {
	return youtubeURL.MatchString(s)
}
