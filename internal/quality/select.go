package quality

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ytget/yt-picker/internal/model"
)

// Selection limits
const (
	// MaxOptions caps the length of the quality menu
	MaxOptions = 10

	// MinCombined is the number of combined streams below which video-only
	// streams are offered as well
	MinCombined = 3
)

// BestAudioSuffix asks the extractor to mux a video-only stream with the best audio track
const BestAudioSuffix = "+bestaudio"

// Select builds the ordered, deduplicated quality menu from raw formats.
//
// Combined (video+audio) streams are always considered; video-only streams are
// appended when fewer than MinCombined combined streams exist. The result is
// strictly descending by height with one entry per height, at most MaxOptions
// long. An empty result is not an error.
func Select(raw []model.FormatDescriptor) []model.QualityOption {
	candidates := make([]model.QualityOption, 0, len(raw))

	for _, f := range raw {
		if f.IsCombined() {
			candidates = append(candidates, newOption(f, f.FormatID))
		}
	}

	if len(candidates) < MinCombined {
		for _, f := range raw {
			if f.IsVideoOnly() {
				candidates = append(candidates, newOption(f, f.FormatID+BestAudioSuffix))
			}
		}
	}

	// ties keep scan order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Height > candidates[j].Height
	})

	options := make([]model.QualityOption, 0, min(len(candidates), MaxOptions))
	seen := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Height]; dup {
			continue
		}
		seen[c.Height] = struct{}{}
		options = append(options, c)
		if len(options) == MaxOptions {
			break
		}
	}

	return options
}

// Label renders the menu text for a format, e.g. "720p @ 30fps - 15.3 MB"
func Label(f model.FormatDescriptor) string {
	label := fmt.Sprintf("%dp", f.Height)
	if fps, ok := f.FrameRate(); ok {
		label += " @ " + strconv.FormatFloat(fps, 'f', -1, 64) + "fps"
	}
	return label + " - " + FormatFileSize(f.FileSize)
}

// ShortLabel returns the height-only quality name, e.g. "720p"
func ShortLabel(o model.QualityOption) string {
	return fmt.Sprintf("%dp", o.Height)
}

func newOption(f model.FormatDescriptor, selector string) model.QualityOption {
	return model.QualityOption{
		Label:    Label(f),
		Selector: selector,
		Height:   f.Height,
	}
}
