package model

// DefaultFPS is assumed when the extractor does not report a frame rate
const DefaultFPS = 30.0

// FormatDescriptor describes one media format as reported by the extractor.
// It is read-only input to the quality selector.
type FormatDescriptor struct {
	FormatID  string   // opaque token understood by the extractor
	Height    int      // pixel height, 0 if absent
	FPS       *float64 // frame rate, nil if absent
	FileSize  int64    // bytes, 0 if unknown
	HasVideo  bool
	HasAudio  bool
	Extension string // container, e.g. "mp4"
}

// FrameRate returns the reported frame rate, DefaultFPS when absent.
// The second result is false when the extractor reported the rate as unavailable.
func (f FormatDescriptor) FrameRate() (float64, bool) {
	if f.FPS == nil {
		return DefaultFPS, true
	}
	if *f.FPS <= 0 {
		return 0, false
	}
	return *f.FPS, true
}

// IsCombined reports whether the format carries both video and audio
func (f FormatDescriptor) IsCombined() bool {
	return f.Height > 0 && f.HasVideo && f.HasAudio
}

// IsVideoOnly reports whether the format carries video without audio
func (f FormatDescriptor) IsVideoOnly() bool {
	return f.Height > 0 && f.HasVideo && !f.HasAudio
}

// QualityOption is one entry of the user-facing quality menu
type QualityOption struct {
	Label    string // e.g. "720p @ 30fps - 15.3 MB"
	Selector string // passed back to the extractor verbatim
	Height   int    // ordering and dedup key
}

// Progress is a download progress snapshot
type Progress struct {
	Downloaded int64
	Total      int64 // 0 if unknown
	// Merging is set once the streams are fetched and are being muxed
	Merging bool
}

// Fraction returns progress in the 0.0..1.0 range, 0 when the total is unknown
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Downloaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}
