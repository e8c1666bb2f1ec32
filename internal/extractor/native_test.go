package extractor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/merge"
	"github.com/ytget/yt-picker/internal/model"
)

type fakeClient struct {
	video     *youtube.Video
	videoErr  error
	streams   map[int]string
	streamErr error
}

func (c *fakeClient) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	return c.video, c.videoErr
}

func (c *fakeClient) GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	if c.streamErr != nil {
		return nil, 0, c.streamErr
	}
	body := c.streams[format.ItagNo]
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

type fakeMerger struct {
	jobs []merge.Job
	err  error
}

func (m *fakeMerger) Merge(ctx context.Context, job merge.Job) error {
	m.jobs = append(m.jobs, job)
	if m.err != nil {
		return m.err
	}
	video, _ := os.ReadFile(job.VideoPath)
	audio, _ := os.ReadFile(job.AudioPath)
	if job.OnProgress != nil {
		job.OnProgress(0.5)
		job.OnProgress(1)
	}
	return os.WriteFile(job.OutputPath, append(video, audio...), 0o644)
}

func testVideo() *youtube.Video {
	return &youtube.Video{
		ID:       "dQw4w9WgXcQ",
		Title:    "Test Video",
		Author:   "Test Channel",
		Duration: 3*time.Minute + 5*time.Second,
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Height: 360, FPS: 30, AudioChannels: 2, ContentLength: 5},
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Height: 1080, FPS: 60, ContentLength: 10},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 130000, ContentLength: 4},
			{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, AudioChannels: 2, Bitrate: 50000, ContentLength: 3},
		},
	}
}

func newTestNative(client *fakeClient, merger *fakeMerger) *Native {
	return &Native{log: zap.NewNop(), client: client, merger: merger}
}

func TestNative_FetchMetadata(t *testing.T) {
	n := newTestNative(&fakeClient{video: testVideo()}, &fakeMerger{})

	meta, err := n.FetchMetadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "Test Video", meta.Title)
	assert.Equal(t, "Test Channel", meta.Uploader)
	assert.Equal(t, 185, meta.Duration)
	require.Len(t, meta.Formats, 4)

	combined := meta.Formats[0]
	assert.Equal(t, "18", combined.FormatID)
	assert.True(t, combined.IsCombined())
	assert.Equal(t, "mp4", combined.Extension)
	require.NotNil(t, combined.FPS)
	assert.Equal(t, 30.0, *combined.FPS)

	assert.True(t, meta.Formats[1].IsVideoOnly())

	audio := meta.Formats[2]
	assert.False(t, audio.HasVideo)
	assert.True(t, audio.HasAudio)
	assert.Nil(t, audio.FPS)
	assert.Equal(t, "m4a", audio.Extension)
}

func TestNative_FetchMetadataError(t *testing.T) {
	n := newTestNative(&fakeClient{videoErr: errors.New("video unavailable")}, &fakeMerger{})

	_, err := n.FetchMetadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.EqualError(t, err, "video unavailable")
}

func TestNative_DownloadSingleStream(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{video: testVideo(), streams: map[int]string{18: "hello"}}
	n := newTestNative(client, &fakeMerger{})

	var last model.Progress
	path, err := n.Download(context.Background(), Request{
		URL:            "https://youtu.be/dQw4w9WgXcQ",
		Selector:       "18",
		OutputTemplate: filepath.Join(dir, "Test Video.%(ext)s"),
		MergeFormat:    "mp4",
		Progress:       func(p model.Progress) { last = p },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Test Video.mp4"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, model.Progress{Downloaded: 5, Total: 5}, last)
}

func TestNative_DownloadWithBestAudio(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{video: testVideo(), streams: map[int]string{137: "video-data", 140: "aud!", 249: "bad"}}
	merger := &fakeMerger{}
	n := newTestNative(client, merger)

	var progress []model.Progress
	path, err := n.Download(context.Background(), Request{
		URL:            "https://youtu.be/dQw4w9WgXcQ",
		Selector:       "137+bestaudio",
		OutputTemplate: filepath.Join(dir, "Test Video.%(ext)s"),
		MergeFormat:    "mkv",
		Progress:       func(p model.Progress) { progress = append(progress, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Test Video.mkv"), path)
	require.Len(t, merger.jobs, 1)
	assert.Equal(t, path, merger.jobs[0].OutputPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-dataaud!", string(data), "highest bitrate audio is merged")
	require.GreaterOrEqual(t, len(progress), 3)
	merging := progress[len(progress)-2:]
	assert.Equal(t, model.Progress{Downloaded: 14, Total: 14}, progress[len(progress)-3], "streams fully fetched before merging")
	assert.Equal(t, []model.Progress{
		{Downloaded: 7, Total: 14, Merging: true},
		{Downloaded: 14, Total: 14, Merging: true},
	}, merging)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary stream files are removed")
}

func TestNative_DownloadMergeFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{video: testVideo(), streams: map[int]string{137: "v", 140: "a"}}
	n := newTestNative(client, &fakeMerger{err: merge.ErrFFmpegNotFound})

	_, err := n.Download(context.Background(), Request{
		URL:            "https://youtu.be/dQw4w9WgXcQ",
		Selector:       "137+bestaudio",
		OutputTemplate: filepath.Join(dir, "Test Video.%(ext)s"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrFFmpegNotFound))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNative_DownloadErrors(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "x.%(ext)s")

	n := newTestNative(&fakeClient{video: testVideo()}, &fakeMerger{})
	_, err := n.Download(context.Background(), Request{URL: "u", Selector: "999", OutputTemplate: tmpl})
	assert.True(t, errors.Is(err, ErrFormatNotFound))

	_, err = n.Download(context.Background(), Request{URL: "u", Selector: "best", OutputTemplate: tmpl})
	assert.True(t, errors.Is(err, ErrFormatNotFound))

	n = newTestNative(&fakeClient{video: testVideo(), streamErr: errors.New("403")}, &fakeMerger{})
	_, err = n.Download(context.Background(), Request{URL: "u", Selector: "18", OutputTemplate: tmpl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestMimeExtension(t *testing.T) {
	tests := map[string]string{
		`video/mp4; codecs="avc1"`: "mp4",
		`video/webm; codecs="vp9"`: "webm",
		`audio/mp4; codecs="mp4a"`: "m4a",
		`audio/webm`:               "webm",
		``:                         "",
	}
	for mime, expected := range tests {
		assert.Equal(t, expected, mimeExtension(mime), mime)
	}
}

func TestBestAudio(t *testing.T) {
	best := bestAudio(testVideo().Formats)
	require.NotNil(t, best)
	assert.Equal(t, 140, best.ItagNo)

	assert.Nil(t, bestAudio(youtube.FormatList{{ItagNo: 137, MimeType: "video/mp4"}}))
}
