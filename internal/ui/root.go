package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/async"
	"github.com/ytget/yt-picker/internal/config"
	"github.com/ytget/yt-picker/internal/extractor"
	"github.com/ytget/yt-picker/internal/i18n"
	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/platform"
	"github.com/ytget/yt-picker/internal/quality"
	"github.com/ytget/yt-picker/internal/session"
)

// RootUI represents the main window: URL lookup, video info, quality list,
// destination and download controls.
type RootUI struct {
	window fyne.Window
	ctx    context.Context
	ctrl   *session.Controller
	loc    *i18n.Localization
	log    *zap.Logger

	urlEntry      *widget.Entry
	infoBtn       *widget.Button
	infoCard      *widget.Card
	titleLabel    *widget.Label
	channelLabel  *widget.Label
	durationLabel *widget.Label
	qualityCard   *widget.Card
	qualityList   *widget.List
	destLabel     *widget.Label
	destEntry     *widget.Entry
	changeBtn     *widget.Button
	openBtn       *widget.Button
	downloadBtn   *widget.Button
	progress      *widget.ProgressBar
	statusLabel   *widget.Label

	// options mirrors the controller's menu for the list widget
	options []model.QualityOption

	// replaceable in tests
	dispatch   func(func())
	wait       func(func())
	confirm    func(title, message string, callback func(bool))
	openFolder func(dir string) error
	quit       func()
}

// NewRootUI creates the main UI and its session controller
func NewRootUI(ctx context.Context, window fyne.Window, ext extractor.Extractor, settings config.Settings, loc *i18n.Localization, log *zap.Logger) *RootUI {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = i18n.NewLocalization()
	}

	ui := &RootUI{
		window:     window,
		ctx:        ctx,
		loc:        loc,
		log:        log.Named("ui"),
		dispatch:   fyne.Do,
		wait:       func(f func()) { go f() },
		openFolder: platform.OpenFolder,
	}
	ui.confirm = func(title, message string, callback func(bool)) {
		dialog.ShowConfirm(title, message, callback, ui.window)
	}
	ui.quit = ui.window.Close

	ui.ctrl = session.New(ext,
		session.WithLogger(log),
		session.WithDownloadDir(settings.DownloadDir),
		session.WithMergeFormat(settings.MergeFormat),
		session.WithFetchTimeout(settings.FetchTimeout),
		session.WithProgress(ui.onProgress),
		session.WithUntitledName(loc.GetText(i18n.KeyUntitled)),
	)

	if err := platform.CreateDirectoryIfNotExists(settings.DownloadDir); err != nil {
		ui.log.Warn("failed to ensure downloads dir", zap.String("path", settings.DownloadDir), zap.Error(err))
	}

	window.SetTitle(loc.GetText(i18n.KeyAppTitle))
	ui.setupUI()
	return ui
}

// Controller exposes the session driven by this window
func (ui *RootUI) Controller() *session.Controller {
	return ui.ctrl
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.loc.GetText(i18n.KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onGetInfo() }

	ui.infoBtn = widget.NewButton(ui.loc.GetText(i18n.KeyGetInfo), ui.onGetInfo)
	ui.infoBtn.Importance = widget.HighImportance

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.Truncation = fyne.TextTruncateEllipsis
	ui.channelLabel = widget.NewLabel("")
	ui.durationLabel = widget.NewLabel("")
	ui.infoCard = widget.NewCard(ui.loc.GetText(i18n.KeyVideoInfo), "",
		container.NewVBox(ui.titleLabel, ui.channelLabel, ui.durationLabel))

	ui.qualityList = widget.NewList(
		func() int { return len(ui.options) },
		func() fyne.CanvasObject { return widget.NewLabel(QualityItemTemplate) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.options) {
				obj.(*widget.Label).SetText(ui.options[id].Label)
			}
		},
	)
	ui.qualityList.OnSelected = ui.onQualitySelected
	ui.qualityCard = widget.NewCard(ui.loc.GetText(i18n.KeyQualityFrame), "", ui.qualityList)

	ui.destLabel = widget.NewLabel(ui.loc.GetText(i18n.KeyDestination))
	ui.destEntry = widget.NewEntry()
	ui.destEntry.SetText(ui.ctrl.DownloadDir())
	ui.destEntry.OnChanged = ui.ctrl.SetDownloadDir
	ui.changeBtn = widget.NewButton(ui.loc.GetText(i18n.KeyChange), ui.onChangeFolder)
	ui.openBtn = widget.NewButton(IconFolder+" "+ui.loc.GetText(i18n.KeyOpenFolder), ui.onOpenFolder)
	destRow := container.NewBorder(nil, nil, ui.destLabel, container.NewHBox(ui.changeBtn, ui.openBtn), ui.destEntry)

	ui.downloadBtn = widget.NewButton(ui.loc.GetText(i18n.KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	ui.progress = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel(ui.loc.GetText(i18n.KeyReady))
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, ui.infoBtn, ui.urlEntry),
		ui.infoCard,
	)
	bottom := container.NewVBox(destRow, ui.downloadBtn, ui.progress, ui.statusLabel)

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, ui.qualityCard))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	quitItem := fyne.NewMenuItem(ui.loc.GetText(i18n.KeyQuit), func() {
		if app := fyne.CurrentApp(); app != nil {
			app.Quit()
		}
	})
	quitItem.IsQuit = true

	languageMenu := fyne.NewMenu(ui.loc.GetText(i18n.KeyLanguage))
	for _, code := range []string{i18n.LangEnglish, i18n.LangSpanish} {
		langCode := code
		item := fyne.NewMenuItem(ui.loc.GetAvailableLanguages()[code], func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = ui.loc.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.loc.GetText(i18n.KeyFile), quitItem),
		languageMenu,
	))
}

// onLanguageChange switches the UI language for this run
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.loc.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all static texts with the current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.loc.GetText(i18n.KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.loc.GetText(i18n.KeyEnterURL))
	ui.infoBtn.SetText(ui.loc.GetText(i18n.KeyGetInfo))
	ui.infoCard.SetTitle(ui.loc.GetText(i18n.KeyVideoInfo))
	ui.qualityCard.SetTitle(ui.loc.GetText(i18n.KeyQualityFrame))
	ui.destLabel.SetText(ui.loc.GetText(i18n.KeyDestination))
	ui.changeBtn.SetText(ui.loc.GetText(i18n.KeyChange))
	ui.openBtn.SetText(IconFolder + " " + ui.loc.GetText(i18n.KeyOpenFolder))
	ui.downloadBtn.SetText(ui.loc.GetText(i18n.KeyDownload))
	ui.showMetadata(ui.ctrl.Metadata())
}

// validateURL flags text that does not look like a video link; empty is allowed
func (ui *RootUI) validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" || quality.ValidateURL(input) {
		return nil
	}
	return errors.New(ui.loc.GetText(i18n.KeyInvalidURL))
}

// onGetInfo fetches video info in the background
func (ui *RootUI) onGetInfo() {
	if err := ui.ctrl.StartLookup(); err != nil {
		ui.log.Debug("lookup rejected", zap.Error(err))
		return
	}

	url := ui.urlEntry.Text
	ui.setOptions(nil)
	ui.showMetadata(nil)
	ui.progress.SetValue(0)
	ui.setBusy(true)
	ui.setStatus(ui.loc.GetText(i18n.KeyFetchingInfo))

	runInBackground(ui, func() (*model.VideoMetadata, error) {
		err := ui.ctrl.SubmitURL(ui.ctx, url)
		return ui.ctrl.Metadata(), err
	}, ui.onInfoFetched)
}

// onInfoFetched runs on the UI thread once the lookup finished
func (ui *RootUI) onInfoFetched(meta *model.VideoMetadata, err error) {
	ui.setBusy(false)

	var fetchErr *session.MetadataFetchError
	switch {
	case err == nil:
	case !session.IsRecoverable(err):
		// an exit word typed into the URL field closes the window
		ui.log.Info("session ended from the URL field", zap.Error(err))
		ui.quit()
		return
	case errors.Is(err, session.ErrEmptyURL):
		ui.setStatus(ui.loc.GetText(i18n.KeyPleaseEnterURL))
		return
	case errors.Is(err, session.ErrInvalidURL):
		ui.setStatus(ui.loc.GetText(i18n.KeyInvalidURL))
		return
	case errors.Is(err, session.ErrNoFormats):
		ui.showMetadata(meta)
		ui.setStatus(ui.loc.GetText(i18n.KeyNoFormats))
		return
	case errors.As(err, &fetchErr):
		msg := ui.loc.Textf(i18n.KeyFetchFailed, fetchErr.Err)
		ui.setStatus(msg)
		ui.showError(errors.New(msg))
		return
	default:
		ui.setStatus(ui.loc.Textf(i18n.KeyError, err))
		ui.showError(err)
		return
	}

	ui.showMetadata(meta)
	options, err := ui.ctrl.PresentOptions()
	if err != nil {
		ui.showError(err)
		return
	}
	ui.setOptions(options)
	ui.setStatus(ui.loc.GetText(i18n.KeyVideoReady))
}

// onQualitySelected records the selection in the controller
func (ui *RootUI) onQualitySelected(id widget.ListItemID) {
	if err := ui.ctrl.SelectIndex(id); err != nil {
		ui.log.Debug("selection rejected", zap.Int("index", id), zap.Error(err))
		return
	}
	ui.downloadBtn.Enable()
}

// onDownloadClick asks for confirmation and then downloads in the background
func (ui *RootUI) onDownloadClick() {
	option, ok := ui.ctrl.Selected()
	if !ok || ui.ctrl.State() != model.StateConfirming {
		ui.setStatus(ui.loc.GetText(i18n.KeyChooseQuality))
		return
	}

	ui.ctrl.SetDownloadDir(ui.destEntry.Text)
	message := ui.loc.Textf(i18n.KeyConfirmQuality, quality.ShortLabel(option))
	ui.confirm(ui.loc.GetText(i18n.KeyConfirmTitle), message, ui.onConfirmed)
}

func (ui *RootUI) onConfirmed(yes bool) {
	if !yes {
		if _, err := ui.ctrl.Decide(ui.ctx, false); err != nil && !errors.Is(err, session.ErrCancelled) {
			ui.log.Debug("cancel rejected", zap.Error(err))
		}
		ui.setOptions(nil)
		ui.setStatus(ui.loc.GetText(i18n.KeyCancelled))
		return
	}

	ui.setBusy(true)
	ui.progress.SetValue(0)
	ui.setStatus(ui.loc.GetText(i18n.KeyDownloading))

	runInBackground(ui, func() (string, error) {
		return ui.ctrl.Decide(ui.ctx, true)
	}, ui.onDownloaded)
}

// onDownloaded runs on the UI thread once the download finished
func (ui *RootUI) onDownloaded(path string, err error) {
	ui.setBusy(false)
	ui.setOptions(nil)

	if err != nil {
		var dlErr *session.DownloadError
		if errors.As(err, &dlErr) {
			err = dlErr.Err
		}
		ui.setStatus(ui.loc.GetText(i18n.KeyDownloadFailed) + ": " + err.Error())
		ui.showError(err)
		return
	}

	ui.progress.SetValue(1)
	ui.setStatus(ui.loc.GetText(i18n.KeyDownloadDone) + "\n" + ui.loc.Textf(i18n.KeyLocation, path))
}

// onProgress is called from the download goroutine
func (ui *RootUI) onProgress(p model.Progress) {
	fraction := p.Fraction()
	ui.dispatch(func() {
		if p.Merging {
			ui.setStatus(ui.loc.GetText(i18n.KeyMerging))
		}
		ui.progress.SetValue(fraction)
	})
}

func (ui *RootUI) onChangeFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if uri == nil {
			return
		}
		ui.destEntry.SetText(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolder() {
	dir := platform.AbsDir(ui.ctrl.DownloadDir())
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.showError(err)
		return
	}
	if err := ui.openFolder(dir); err != nil {
		ui.log.Warn("failed to open folder", zap.String("path", dir), zap.Error(err))
		ui.showError(fmt.Errorf("%s: %w", ui.loc.GetText(i18n.KeyErrorOpenFolder), err))
	}
}

func (ui *RootUI) showMetadata(meta *model.VideoMetadata) {
	if meta == nil {
		ui.titleLabel.SetText("")
		ui.channelLabel.SetText("")
		ui.durationLabel.SetText("")
		return
	}
	ui.titleLabel.SetText(ui.loc.GetText(i18n.KeyTitle) + ": " + meta.TitleOr(ui.loc.GetText(i18n.KeyUntitled)))
	ui.channelLabel.SetText(ui.loc.GetText(i18n.KeyChannel) + ": " + meta.UploaderOr(ui.loc.GetText(i18n.KeyUnknownUploader)))
	if d := meta.DurationString(); d != "" {
		ui.durationLabel.SetText(ui.loc.GetText(i18n.KeyDuration) + ": " + d)
	} else {
		ui.durationLabel.SetText("")
	}
}

func (ui *RootUI) setOptions(options []model.QualityOption) {
	ui.options = options
	ui.qualityList.UnselectAll()
	ui.qualityList.Refresh()
	ui.downloadBtn.Disable()
}

// setBusy disables the controls that would start a second operation
func (ui *RootUI) setBusy(busy bool) {
	for _, w := range []fyne.Disableable{ui.infoBtn, ui.urlEntry, ui.changeBtn, ui.destEntry} {
		if busy {
			w.Disable()
		} else {
			w.Enable()
		}
	}
	if busy {
		ui.downloadBtn.Disable()
	}
}

func (ui *RootUI) setStatus(text string) {
	ui.statusLabel.SetText(text)
}

func (ui *RootUI) showError(err error) {
	dialog.ShowError(err, ui.window)
}

// runInBackground runs work off the UI thread and hands its result to done on the UI thread
func runInBackground[T any](ui *RootUI, work func() (T, error), done func(T, error)) {
	result := async.RunResult(work)
	ui.wait(func() {
		r := <-result
		if !r.IsOk() {
			ui.log.Debug("background task failed", zap.Error(r.Err))
		}
		ui.dispatch(func() { done(r.Value, r.Err) })
	})
}
