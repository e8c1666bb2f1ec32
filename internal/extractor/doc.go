package extractor

// Package extractor adapts third-party video extractors to the narrow contract
// the session controller needs: fetch metadata with the raw format list, and
// download a chosen format selector into an output template. Two backends are
// provided, one driving yt-dlp (github.com/lrstanley/go-ytdlp) and a native
// one built on github.com/kkdai/youtube/v2 with ffmpeg merging.
