package quality

import "fmt"

// UnknownSize is rendered for zero or missing byte counts
const UnknownSize = "Unknown size"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with one decimal digit, stepping through
// B, KB, MB and GB by powers of 1024; anything larger is shown in TB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return UnknownSize
	}

	size := float64(bytes)
	for _, unit := range sizeUnits {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
