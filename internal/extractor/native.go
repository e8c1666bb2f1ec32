package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/merge"
	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/platform"
)

// Temp file naming
const (
	TempPrefix = ".yt-picker-"
	TempSuffix = ".part"
)

// mergeSteps scales merge progress when the stream sizes are unknown
const mergeSteps = 100

// youtubeClient is the subset of *youtube.Client used here
type youtubeClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Native extracts with the pure Go YouTube client and merges through ffmpeg
type Native struct {
	log    *zap.Logger
	client youtubeClient
	merger merge.Merger
}

// NewNative creates a native extractor
func NewNative(log *zap.Logger) *Native {
	if log == nil {
		log = zap.NewNop()
	}
	return &Native{
		log:    log.Named("native"),
		client: &youtube.Client{},
		merger: merge.NewService(log.Named("merge")),
	}
}

// FetchMetadata resolves the video and maps every stream to a descriptor
func (n *Native) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	video, err := n.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, err
	}

	meta := &model.VideoMetadata{
		ID:       video.ID,
		Title:    video.Title,
		Uploader: video.Author,
		Duration: int(video.Duration.Seconds()),
		Formats:  make([]model.FormatDescriptor, 0, len(video.Formats)),
	}
	for i := range video.Formats {
		meta.Formats = append(meta.Formats, toDescriptor(&video.Formats[i]))
	}
	return meta, nil
}

func toDescriptor(f *youtube.Format) model.FormatDescriptor {
	d := model.FormatDescriptor{
		FormatID:  strconv.Itoa(f.ItagNo),
		Height:    f.Height,
		FileSize:  f.ContentLength,
		HasVideo:  strings.HasPrefix(f.MimeType, "video/"),
		HasAudio:  f.AudioChannels > 0,
		Extension: mimeExtension(f.MimeType),
	}
	if f.FPS > 0 {
		fps := float64(f.FPS)
		d.FPS = &fps
	}
	return d
}

// mimeExtension maps "video/mp4; codecs=..." to a file extension
func mimeExtension(mimeType string) string {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	kind, sub, ok := strings.Cut(base, "/")
	if !ok {
		return ""
	}
	if kind == "audio" && sub == "mp4" {
		return "m4a"
	}
	return sub
}

// Download streams the selected format, plus the best audio stream and an
// ffmpeg merge for "<itag>+bestaudio" selectors.
func (n *Native) Download(ctx context.Context, req Request) (path string, err error) {
	id, withAudio := ParseSelector(req.Selector)
	itag, err := strconv.Atoi(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFormatNotFound, req.Selector)
	}

	video, err := n.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return "", err
	}

	format := findByItag(video.Formats, itag)
	if format == nil {
		return "", fmt.Errorf("%w: itag %d", ErrFormatNotFound, itag)
	}

	dir, _ := splitTemplate(req.OutputTemplate)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}

	if !withAudio {
		out := ResolveTemplate(req.OutputTemplate, mimeExtension(format.MimeType))
		tracker := &progressTracker{total: format.ContentLength, report: req.report}
		if err := n.fetchStream(ctx, video, format, out, tracker); err != nil {
			return "", err
		}
		return out, nil
	}

	audio := bestAudio(video.Formats)
	if audio == nil {
		return "", fmt.Errorf("%w: no audio stream", ErrFormatNotFound)
	}

	container := req.MergeFormat
	if container == "" {
		container = mimeExtension(format.MimeType)
	}
	out := ResolveTemplate(req.OutputTemplate, container)

	videoTmp := tempPath(dir)
	audioTmp := tempPath(dir)
	defer func() {
		if cleanupErr := removeFiles(videoTmp, audioTmp); cleanupErr != nil {
			n.log.Warn("failed to remove temporary files", zap.Error(cleanupErr))
			if err != nil {
				err = multierror.Append(err, cleanupErr)
			}
		}
	}()

	tracker := &progressTracker{total: format.ContentLength + audio.ContentLength, report: req.report}
	if err := n.fetchStream(ctx, video, format, videoTmp, tracker); err != nil {
		return "", err
	}
	if err := n.fetchStream(ctx, video, audio, audioTmp, tracker); err != nil {
		return "", err
	}

	total := tracker.total
	if total <= 0 {
		total = mergeSteps
	}
	job := merge.Job{
		VideoPath:  videoTmp,
		AudioPath:  audioTmp,
		OutputPath: out,
		OnProgress: func(fraction float64) {
			req.report(model.Progress{Downloaded: int64(fraction * float64(total)), Total: total, Merging: true})
		},
	}

	n.log.Debug("merging streams", zap.String("video", videoTmp), zap.String("audio", audioTmp), zap.String("path", out))
	if err := n.merger.Merge(ctx, job); err != nil {
		return "", fmt.Errorf("failed to merge streams: %w", err)
	}
	return out, nil
}

// fetchStream copies one stream into path; a partial file is removed on failure
func (n *Native) fetchStream(ctx context.Context, video *youtube.Video, format *youtube.Format, path string, tracker *progressTracker) error {
	stream, size, err := n.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("failed to open stream %d: %w", format.ItagNo, err)
	}
	defer stream.Close()

	if format.ContentLength == 0 && size > 0 {
		tracker.total += size
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	n.log.Debug("downloading stream", zap.Int("itag", format.ItagNo), zap.Int64("size", size), zap.String("path", path))
	_, copyErr := io.Copy(io.MultiWriter(file, tracker), stream)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return fmt.Errorf("failed to download stream %d: %w", format.ItagNo, copyErr)
		}
		return closeErr
	}
	return nil
}

func findByItag(formats youtube.FormatList, itag int) *youtube.Format {
	for i := range formats {
		if formats[i].ItagNo == itag {
			return &formats[i]
		}
	}
	return nil
}

// bestAudio returns the audio-only stream with the highest bitrate
func bestAudio(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func tempPath(dir string) string {
	return filepath.Join(dir, TempPrefix+uuid.NewString()+TempSuffix)
}

func removeFiles(paths ...string) error {
	var result *multierror.Error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// progressTracker counts written bytes across one or more streams
type progressTracker struct {
	written int64
	total   int64
	report  func(model.Progress)
}

func (p *progressTracker) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	p.report(model.Progress{Downloaded: p.written, Total: p.total})
	return len(b), nil
}
