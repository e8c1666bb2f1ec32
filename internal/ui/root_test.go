package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-picker/internal/config"
	"github.com/ytget/yt-picker/internal/extractor"
	"github.com/ytget/yt-picker/internal/i18n"
	"github.com/ytget/yt-picker/internal/model"
)

const validURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeExtractor struct {
	fetchErr    error
	downloadErr error
	untitled    bool
	merge       bool
	requests    []extractor.Request
}

func (f *fakeExtractor) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	meta := &model.VideoMetadata{
		Title:    "GUI Video",
		Uploader: "GUI Channel",
		Duration: 3725,
		Formats: []model.FormatDescriptor{
			{FormatID: "18", Height: 360, HasVideo: true, HasAudio: true},
			{FormatID: "22", Height: 720, HasVideo: true, HasAudio: true},
			{FormatID: "137", Height: 1080, HasVideo: true},
		},
	}
	if f.untitled {
		meta.Title = ""
		meta.Uploader = ""
	}
	return meta, nil
}

func (f *fakeExtractor) Download(ctx context.Context, req extractor.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	req.Progress(model.Progress{Downloaded: 1, Total: 4})
	if f.merge {
		req.Progress(model.Progress{Downloaded: 2, Total: 4, Merging: true})
	}
	return extractor.ResolveTemplate(req.OutputTemplate, "mp4"), nil
}

func newTestUI(t *testing.T, ext *fakeExtractor) *RootUI {
	t.Helper()
	return newTestUIWithLocalization(t, ext, i18n.NewLocalization())
}

func newTestUIWithLocalization(t *testing.T, ext *fakeExtractor, loc *i18n.Localization) *RootUI {
	t.Helper()
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	settings := config.Default()
	settings.DownloadDir = t.TempDir()

	ui := NewRootUI(context.Background(), w, ext, settings, loc, nil)
	ui.dispatch = func(f func()) { f() }
	ui.wait = func(f func()) { f() }
	return ui
}

func lookup(t *testing.T, ui *RootUI, url string) {
	t.Helper()
	test.Type(ui.urlEntry, url)
	test.Tap(ui.infoBtn)
}

func TestRootUI_InitialState(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})

	assert.Equal(t, "Ready", ui.statusLabel.Text)
	assert.True(t, ui.downloadBtn.Disabled())
	assert.Equal(t, ui.Controller().DownloadDir(), ui.destEntry.Text)
	assert.Equal(t, model.StateIdle, ui.Controller().State())
}

func TestRootUI_FetchAndDownload(t *testing.T) {
	ext := &fakeExtractor{}
	ui := newTestUI(t, ext)

	var confirmMessage string
	ui.confirm = func(title, message string, callback func(bool)) {
		confirmMessage = message
		callback(true)
	}

	lookup(t, ui, validURL)

	assert.Equal(t, "Title: GUI Video", ui.titleLabel.Text)
	assert.Equal(t, "Channel: GUI Channel", ui.channelLabel.Text)
	assert.Equal(t, "Duration: 1:02:05", ui.durationLabel.Text)
	require.Len(t, ui.options, 3)
	assert.Equal(t, "1080p @ 30fps - Unknown size", ui.options[0].Label)
	assert.Equal(t, "Video ready to download", ui.statusLabel.Text)
	assert.True(t, ui.downloadBtn.Disabled(), "download needs a selection")

	ui.qualityList.Select(1)
	assert.False(t, ui.downloadBtn.Disabled())

	test.Tap(ui.downloadBtn)

	assert.Contains(t, confirmMessage, "720p")
	require.Len(t, ext.requests, 1)
	assert.Equal(t, "22", ext.requests[0].Selector)
	assert.Equal(t, 1.0, ui.progress.Value)
	assert.True(t, strings.HasPrefix(ui.statusLabel.Text, "✅ Download completed!"))
	assert.Contains(t, ui.statusLabel.Text, "GUI Video.mp4")
	assert.Equal(t, model.StateIdle, ui.Controller().State())
	assert.False(t, ui.infoBtn.Disabled())
	assert.True(t, ui.downloadBtn.Disabled())
}

func TestRootUI_CancelDoesNotDownload(t *testing.T) {
	ext := &fakeExtractor{}
	ui := newTestUI(t, ext)
	ui.confirm = func(title, message string, callback func(bool)) { callback(false) }

	lookup(t, ui, validURL)
	ui.qualityList.Select(0)
	test.Tap(ui.downloadBtn)

	assert.Empty(t, ext.requests)
	assert.Equal(t, "❌ Download cancelled.", ui.statusLabel.Text)
	assert.Equal(t, model.StateAwaitingURL, ui.Controller().State())
	assert.Empty(t, ui.options)

	test.Tap(ui.infoBtn)
	assert.Len(t, ui.options, 3, "a new lookup works after cancelling")
}

func TestRootUI_ExitWordClosesWindow(t *testing.T) {
	for _, word := range []string{"quit", "exit", "salir"} {
		t.Run(word, func(t *testing.T) {
			ext := &fakeExtractor{}
			ui := newTestUI(t, ext)
			closed := 0
			ui.quit = func() { closed++ }

			lookup(t, ui, word)

			assert.Equal(t, 1, closed)
			assert.Equal(t, model.StateTerminated, ui.Controller().State())
			assert.Empty(t, ext.requests)
			assert.NotContains(t, ui.statusLabel.Text, "exit requested", "no error is reported for an exit word")
		})
	}
}

func TestRootUI_MergePhaseStatus(t *testing.T) {
	ext := &fakeExtractor{merge: true}
	ui := newTestUI(t, ext)
	ui.confirm = func(title, message string, callback func(bool)) { callback(true) }

	var statuses []string
	ui.dispatch = func(f func()) {
		f()
		statuses = append(statuses, ui.statusLabel.Text)
	}

	lookup(t, ui, validURL)
	ui.qualityList.Select(0)
	test.Tap(ui.downloadBtn)

	assert.Contains(t, statuses, "🔀 Merging video and audio...")
	assert.True(t, strings.HasPrefix(ui.statusLabel.Text, "✅ Download completed!"))
}

func TestRootUI_SpanishDefaults(t *testing.T) {
	loc := i18n.NewLocalization()
	loc.SetLanguage(i18n.LangSpanish)
	ext := &fakeExtractor{untitled: true}
	ui := newTestUIWithLocalization(t, ext, loc)
	ui.confirm = func(title, message string, callback func(bool)) { callback(true) }

	lookup(t, ui, validURL)
	assert.Equal(t, "Título: Video sin título", ui.titleLabel.Text)
	assert.Equal(t, "Canal: Desconocido", ui.channelLabel.Text)

	ui.qualityList.Select(0)
	test.Tap(ui.downloadBtn)
	require.Len(t, ext.requests, 1)
	assert.Contains(t, ext.requests[0].OutputTemplate, "Video sin título.")
}

func TestRootUI_InvalidURL(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})

	lookup(t, ui, "https://vimeo.com/12345")

	assert.Equal(t, "❌ The URL does not look like YouTube. Try again.", ui.statusLabel.Text)
	assert.Error(t, ui.urlEntry.Validate())
	assert.Empty(t, ui.options)
	assert.False(t, ui.infoBtn.Disabled())
}

func TestRootUI_EmptyURL(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})

	test.Tap(ui.infoBtn)

	assert.Equal(t, "❌ Please enter a valid URL.", ui.statusLabel.Text)
	assert.Equal(t, model.StateAwaitingURL, ui.Controller().State())
}

func TestRootUI_FetchFailure(t *testing.T) {
	ext := &fakeExtractor{fetchErr: errors.New("private video")}
	ui := newTestUI(t, ext)

	lookup(t, ui, validURL)

	assert.Equal(t, "Could not fetch video information: private video", ui.statusLabel.Text)
	assert.Equal(t, model.StateAwaitingURL, ui.Controller().State())
	assert.False(t, ui.infoBtn.Disabled())

	ext.fetchErr = nil
	test.Tap(ui.infoBtn)
	assert.Len(t, ui.options, 3)
}

func TestRootUI_DownloadFailure(t *testing.T) {
	ext := &fakeExtractor{downloadErr: errors.New("network reset")}
	ui := newTestUI(t, ext)
	ui.confirm = func(title, message string, callback func(bool)) { callback(true) }

	lookup(t, ui, validURL)
	ui.qualityList.Select(0)
	test.Tap(ui.downloadBtn)

	assert.Equal(t, "Download failed: network reset", ui.statusLabel.Text)
	assert.Equal(t, model.StateIdle, ui.Controller().State())
	assert.False(t, ui.infoBtn.Disabled())
}

func TestRootUI_DestinationEntryUpdatesController(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})

	dir := t.TempDir()
	ui.destEntry.SetText(dir)
	assert.Equal(t, dir, ui.Controller().DownloadDir())

	var opened string
	ui.openFolder = func(d string) error {
		opened = d
		return nil
	}
	test.Tap(ui.openBtn)
	assert.Equal(t, dir, opened)
}

func TestRootUI_LanguageChange(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})
	lookup(t, ui, validURL)

	ui.onLanguageChange(i18n.LangSpanish)

	assert.Equal(t, "Título: GUI Video", ui.titleLabel.Text)
	assert.Equal(t, ui.loc.GetText(i18n.KeyGetInfo), ui.infoBtn.Text)
	assert.Equal(t, i18n.LangSpanish, ui.loc.GetCurrentLanguage())
}

func TestValidateURL(t *testing.T) {
	ui := newTestUI(t, &fakeExtractor{})

	assert.NoError(t, ui.validateURL(""))
	assert.NoError(t, ui.validateURL(validURL))
	assert.Error(t, ui.validateURL("not a url"))
}
