package model

import (
	"fmt"
	"strings"
)

// Metadata defaults used when the extractor omits a field
const (
	DefaultTitle    = "Untitled video"
	DefaultUploader = "Unknown"
)

// VideoMetadata is what the extractor returns for a single video
type VideoMetadata struct {
	ID       string
	Title    string
	Uploader string
	Duration int // seconds, 0 if unknown
	Formats  []FormatDescriptor
}

// DurationString returns the duration as m:ss, or h:mm:ss past an hour.
// Empty when the duration is unknown.
func (m *VideoMetadata) DurationString() string {
	if m.Duration <= 0 {
		return ""
	}

	hours := m.Duration / 3600
	minutes := (m.Duration % 3600) / 60
	seconds := m.Duration % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// DisplayTitle returns a single-line title, DefaultTitle when empty
func (m *VideoMetadata) DisplayTitle() string {
	return m.TitleOr(DefaultTitle)
}

// TitleOr returns a single-line title, fallback when empty
func (m *VideoMetadata) TitleOr(fallback string) string {
	title := strings.Join(strings.Fields(m.Title), " ")
	if title == "" {
		return fallback
	}
	return title
}

// DisplayUploader returns the uploader, DefaultUploader when empty
func (m *VideoMetadata) DisplayUploader() string {
	return m.UploaderOr(DefaultUploader)
}

// UploaderOr returns the uploader, fallback when empty
func (m *VideoMetadata) UploaderOr(fallback string) string {
	if strings.TrimSpace(m.Uploader) == "" {
		return fallback
	}
	return m.Uploader
}
