package quality

import (
	"path/filepath"
	"strings"
)

// Filename limits and templates
const (
	MaxFilenameLength = 100
	ExtPlaceholder    = "%(ext)s"
)

var forbiddenChars = strings.NewReplacer(
	`<`, "_",
	`>`, "_",
	`:`, "_",
	`"`, "_",
	`/`, "_",
	`\`, "_",
	`|`, "_",
	`?`, "_",
	`*`, "_",
)

// SanitizeFilename replaces characters that are invalid in file names with
// underscores, one for one, and truncates the result to MaxFilenameLength runes.
func SanitizeFilename(title string) string {
	clean := forbiddenChars.Replace(title)
	runes := []rune(clean)
	if len(runes) > MaxFilenameLength {
		return string(runes[:MaxFilenameLength])
	}
	return clean
}

// OutputTemplate returns the extractor output path for a title inside dir.
// The extension stays a placeholder resolved by the extractor after merging.
func OutputTemplate(dir, title string) string {
	return filepath.Join(dir, SanitizeFilename(title)+"."+ExtPlaceholder)
}
