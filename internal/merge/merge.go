package merge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Executable and I/O constants
const (
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	CopyCodec           = "copy"
)

// ErrFFmpegNotFound is returned when ffmpeg is not on PATH
var ErrFFmpegNotFound = errors.New("ffmpeg executable not found in PATH")

// Merger muxes a video-only and an audio-only file into one output
type Merger interface {
	Merge(ctx context.Context, job Job) error
}

// Job describes a single merge
type Job struct {
	VideoPath  string
	AudioPath  string
	OutputPath string
	// OnProgress receives a fraction in [0, 1]; may be nil
	OnProgress func(float64)
}

// Service runs ffmpeg to merge streams
type Service struct {
	log       *zap.Logger
	ffmpeg    string
	ffprobe   string
	lookPath  func(string) (string, error)
	probeTime func(ctx context.Context, path string) (float64, error)
}

// NewService creates a new merge service
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		log:      log,
		ffmpeg:   FFmpegCommand,
		ffprobe:  FFprobeCommand,
		lookPath: exec.LookPath,
	}
	s.probeTime = s.getDuration
	return s
}

// Available reports whether ffmpeg can be found
func (s *Service) Available() bool {
	_, err := s.lookPath(s.ffmpeg)
	return err == nil
}

// Merge runs ffmpeg and blocks until it exits or ctx is done.
// A partial output file is removed on failure.
func (s *Service) Merge(ctx context.Context, job Job) error {
	if !s.Available() {
		return ErrFFmpegNotFound
	}
	for _, p := range []string{job.VideoPath, job.AudioPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("input file does not exist: %s", p)
		}
	}

	duration, err := s.probeTime(ctx, job.VideoPath)
	if err != nil {
		// progress is optional
		s.log.Debug("ffprobe failed", zap.String("path", job.VideoPath), zap.Error(err))
		duration = 0
	}

	args := BuildFFmpegArgs(job.VideoPath, job.AudioPath, job.OutputPath)
	cmd := exec.CommandContext(ctx, s.ffmpeg, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	s.log.Debug("starting ffmpeg", zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := monitorProgress(stderr, duration, job.OnProgress)

	if err := cmd.Wait(); err != nil {
		_ = os.Remove(job.OutputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.Join(tail, "; "))
	}

	if job.OnProgress != nil {
		job.OnProgress(1.0)
	}
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments for a stream copy merge
func BuildFFmpegArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c", CopyCodec,
		"-progress", ProgressPipeTarget,
		"-nostats",
		"-loglevel", "error",
		outputPath,
	}
}

func (s *Service) getDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return ParseDuration(string(output))
}

// ParseDuration parses ffprobe's duration output in seconds
func ParseDuration(out string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress consumes ffmpeg's progress stream until EOF and
// returns the last few non-progress lines for error reporting.
func monitorProgress(r io.Reader, totalDuration float64, onProgress func(float64)) []string {
	const keep = 5
	var tail []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if frac, ok := parseProgressLine(line, totalDuration); ok {
			if onProgress != nil {
				onProgress(frac)
			}
			continue
		}
		if line == "" || strings.Contains(line, "=") {
			continue
		}
		tail = append(tail, line)
		if len(tail) > keep {
			tail = tail[1:]
		}
	}
	return tail
}

// parseProgressLine parses "out_time_us=123456" into a fraction of totalDuration
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalDuration <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	progress := float64(us) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return progress, true
}
