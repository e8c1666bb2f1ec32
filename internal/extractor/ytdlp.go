package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/platform"
)

// Retry and progress settings
const (
	MaxRetries       = 1
	RetryBackoff     = 2 * time.Second
	ProgressInterval = 500 * time.Millisecond
)

// YTDLP extracts through the yt-dlp executable
type YTDLP struct {
	log        *zap.Logger
	executable string // empty resolves yt-dlp from PATH or the library cache
	backoff    time.Duration
	findOutput func(dir, base string) (string, error)
}

// NewYTDLP creates a yt-dlp backed extractor
func NewYTDLP(log *zap.Logger) *YTDLP {
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLP{
		log:        log.Named("ytdlp"),
		backoff:    RetryBackoff,
		findOutput: platform.FindDownloadedFile,
	}
}

// SetExecutable runs the given yt-dlp binary instead of resolving one
func (y *YTDLP) SetExecutable(path string) {
	y.executable = path
}

func (y *YTDLP) command() *ytdlp.Command {
	dl := ytdlp.New()
	if y.executable != "" {
		dl.SetExecutable(y.executable)
	}
	return dl
}

// Install downloads a yt-dlp binary into the library cache when none is usable
func (y *YTDLP) Install(ctx context.Context) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	y.log.Info("yt-dlp ready", zap.String("path", resolved.Executable), zap.String("version", resolved.Version))
	return nil
}

// FetchMetadata runs yt-dlp without downloading and decodes its JSON output
func (y *YTDLP) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	dl := y.command().
		SkipDownload().
		PrintJSON().
		NoPlaylist().
		NoWarnings()

	y.log.Debug("fetching metadata", zap.String("url", url))
	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	meta, err := parseInfo(result.Stdout)
	if err != nil {
		return nil, err
	}
	y.log.Debug("metadata fetched",
		zap.String("url", url),
		zap.String("id", meta.ID),
		zap.Int("formats", len(meta.Formats)))
	return meta, nil
}

// Download runs yt-dlp for the selector and returns the merged file path
func (y *YTDLP) Download(ctx context.Context, req Request) (string, error) {
	dl := y.command().
		Format(req.Selector).
		Output(req.OutputTemplate).
		PrintJSON().
		NoPlaylist().
		ForceOverwrites()
	if req.MergeFormat != "" {
		dl = dl.MergeOutputFormat(req.MergeFormat)
	}

	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		req.report(model.Progress{
			Downloaded: int64(update.DownloadedBytes),
			Total:      int64(update.TotalBytes),
		})
	})

	result, err := y.downloadWithRetry(ctx, dl, req)
	if err != nil {
		return "", err
	}

	if path := extractedFilename(result); path != "" {
		return path, nil
	}

	dir, base := splitTemplate(req.OutputTemplate)
	path, err := y.findOutput(dir, base)
	if err != nil {
		// the download itself succeeded; report the expected location
		y.log.Warn("could not locate downloaded file", zap.String("dir", dir), zap.Error(err))
		return ResolveTemplate(req.OutputTemplate, req.MergeFormat), nil
	}
	return path, nil
}

// downloadWithRetry attempts download with retry logic
func (y *YTDLP) downloadWithRetry(ctx context.Context, dl *ytdlp.Command, req Request) (*ytdlp.Result, error) {
	var lastErr error
	var result *ytdlp.Result

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(y.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			y.log.Info("retrying download", zap.String("url", req.URL), zap.Int("attempt", attempt+1))
		}

		res, err := dl.Run(ctx, req.URL)
		if err == nil {
			return res, nil
		}

		lastErr = err
		result = res
		y.log.Warn("download attempt failed",
			zap.String("url", req.URL),
			zap.String("format", req.Selector),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, lastErr
}

// extractedFilename returns the file name yt-dlp reported in its JSON output
func extractedFilename(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return ""
	}
	for _, name := range []*string{info[0].Filename, info[0].AltFilename} {
		if name != nil && *name != "" {
			return *name
		}
	}
	return ""
}
