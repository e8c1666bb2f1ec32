package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ytget/yt-picker/internal/model"
)

// codecNone is what yt-dlp reports for an absent stream
const codecNone = "none"

// rawInfo mirrors the subset of the yt-dlp info JSON the picker uses
type rawInfo struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Uploader string      `json:"uploader"`
	Channel  string      `json:"channel"`
	Duration float64     `json:"duration"`
	Formats  []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *int     `json:"height"`
	FPS            *float64 `json:"fps"`
	FileSize       *int64   `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
}

// parseInfo decodes yt-dlp JSON output. With several JSON documents on
// stdout, the last complete one wins.
func parseInfo(stdout string) (*model.VideoMetadata, error) {
	var info *rawInfo
	dec := json.NewDecoder(strings.NewReader(stdout))
	for dec.More() {
		var ri rawInfo
		if err := dec.Decode(&ri); err != nil {
			if info != nil {
				break
			}
			return nil, fmt.Errorf("failed to decode video info: %w", err)
		}
		info = &ri
	}
	if info == nil {
		return nil, fmt.Errorf("no video info in extractor output")
	}
	return info.toMetadata(), nil
}

func (ri *rawInfo) toMetadata() *model.VideoMetadata {
	uploader := ri.Uploader
	if uploader == "" {
		uploader = ri.Channel
	}

	meta := &model.VideoMetadata{
		ID:       ri.ID,
		Title:    ri.Title,
		Uploader: uploader,
		Duration: int(ri.Duration),
		Formats:  make([]model.FormatDescriptor, 0, len(ri.Formats)),
	}
	for _, f := range ri.Formats {
		meta.Formats = append(meta.Formats, f.toDescriptor())
	}
	return meta
}

func (f rawFormat) toDescriptor() model.FormatDescriptor {
	d := model.FormatDescriptor{
		FormatID:  f.FormatID,
		FPS:       f.FPS,
		HasVideo:  hasStream(f.VCodec),
		HasAudio:  hasStream(f.ACodec),
		Extension: f.Ext,
	}
	if f.Height != nil {
		d.Height = *f.Height
	}
	switch {
	case f.FileSize != nil && *f.FileSize > 0:
		d.FileSize = *f.FileSize
	case f.FileSizeApprox != nil && *f.FileSizeApprox > 0:
		d.FileSize = int64(*f.FileSizeApprox)
	}
	return d
}

// hasStream treats a missing codec field as present
func hasStream(codec *string) bool {
	return codec == nil || *codec != codecNone
}
