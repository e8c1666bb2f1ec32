package session

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/extractor"
	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/platform"
	"github.com/ytget/yt-picker/internal/quality"
)

// Default session settings
const (
	DefaultDownloadDir  = "downloads"
	DefaultMergeFormat  = "mp4"
	DefaultFetchTimeout = 60 * time.Second
)

var (
	exitWords   = []string{"salir", "exit", "quit"}
	affirmative = []string{"s", "si", "sí", "y", "yes"}
)

// IsExitWord reports whether input asks to end the session
func IsExitWord(input string) bool {
	return slices.Contains(exitWords, strings.ToLower(strings.TrimSpace(input)))
}

// IsAffirmative reports whether input confirms a prompt
func IsAffirmative(input string) bool {
	return slices.Contains(affirmative, strings.ToLower(strings.TrimSpace(input)))
}

// Controller drives one interactive session
type Controller struct {
	id           string
	ext          extractor.Extractor
	log          *zap.Logger
	fetchTimeout time.Duration
	onState      func(from, to model.SessionState)
	onProgress   func(model.Progress)

	mu          sync.Mutex
	state       model.SessionState
	url         string
	metadata    *model.VideoMetadata
	options     []model.QualityOption
	selected    int
	downloadDir string
	mergeFormat string
	untitled    string
	lastPath    string
}

// New creates a controller in the Idle state
func New(ext extractor.Extractor, opts ...Option) *Controller {
	c := &Controller{
		id:           uuid.NewString(),
		ext:          ext,
		log:          zap.NewNop(),
		fetchTimeout: DefaultFetchTimeout,
		state:        model.StateIdle,
		selected:     -1,
		downloadDir:  DefaultDownloadDir,
		mergeFormat:  DefaultMergeFormat,
		untitled:     model.DefaultTitle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("session", c.id))
	return c
}

// ID returns the session identifier used in logs
func (c *Controller) ID() string { return c.id }

// State returns the current state
func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// URL returns the URL of the current lookup
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// Metadata returns the metadata of the current lookup, or nil
func (c *Controller) Metadata() *model.VideoMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metadata
}

// Options returns a copy of the current quality menu
func (c *Controller) Options() []model.QualityOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.options)
}

// Selected returns the chosen option, if any
func (c *Controller) Selected() (model.QualityOption, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.selected >= len(c.options) {
		return model.QualityOption{}, false
	}
	return c.options[c.selected], true
}

// DownloadDir returns the destination directory
func (c *Controller) DownloadDir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloadDir
}

// SetDownloadDir overrides the destination directory for later downloads
func (c *Controller) SetDownloadDir(dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	c.mu.Lock()
	c.downloadDir = dir
	c.mu.Unlock()
	c.log.Debug("download directory changed", zap.String("path", dir))
}

// LastPath returns the file written by the last successful download
func (c *Controller) LastPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPath
}

// StartLookup begins a new lookup from any idle-like state
func (c *Controller) StartLookup() error {
	c.mu.Lock()
	if !c.state.AcceptsLookup() {
		state := c.state
		c.mu.Unlock()
		if state.IsBusy() {
			return ErrBusy
		}
		return c.wrongState(state)
	}
	c.url = ""
	c.metadata = nil
	c.options = nil
	c.selected = -1
	c.mu.Unlock()

	c.transition(model.StateAwaitingURL)
	return nil
}

// SubmitURL validates input and fetches the video's qualities. Every
// failure leaves the controller in AwaitingURL, ready for another URL.
func (c *Controller) SubmitURL(ctx context.Context, input string) error {
	if err := c.expect(model.StateAwaitingURL); err != nil {
		return err
	}

	url := strings.TrimSpace(input)
	if IsExitWord(url) {
		c.transition(model.StateTerminated)
		return ErrExitRequested
	}
	if url == "" {
		return ErrEmptyURL
	}

	c.transition(model.StateValidating)
	if !quality.ValidateURL(url) {
		c.transition(model.StateAwaitingURL)
		return fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}

	c.transition(model.StateFetchingInfo)
	meta, err := c.fetch(ctx, url)
	if err != nil {
		c.log.Warn("metadata fetch failed", zap.String("url", url), zap.Error(err))
		c.transition(model.StateAwaitingURL)
		return &MetadataFetchError{URL: url, Err: err}
	}

	options := quality.Select(meta.Formats)

	c.mu.Lock()
	c.url = url
	c.metadata = meta
	c.options = options
	c.selected = -1
	c.mu.Unlock()

	c.log.Info("video info fetched",
		zap.String("url", url),
		zap.String("title", meta.DisplayTitle()),
		zap.Int("formats", len(meta.Formats)),
		zap.Int("options", len(options)))

	if len(options) == 0 {
		c.transition(model.StateAwaitingURL)
		return ErrNoFormats
	}

	c.transition(model.StatePresentingOptions)
	return nil
}

func (c *Controller) fetch(ctx context.Context, url string) (*model.VideoMetadata, error) {
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}
	meta, err := c.ext.FetchMetadata(ctx, url)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("extractor returned no metadata")
	}
	return meta, nil
}

// PresentOptions returns the quality menu, in display order, and waits for a selection
func (c *Controller) PresentOptions() ([]model.QualityOption, error) {
	if err := c.expect(model.StatePresentingOptions); err != nil {
		return nil, err
	}
	options := c.Options()
	c.transition(model.StateAwaitingSelection)
	return options, nil
}

// Select parses a 1-based menu index. Bad input leaves the state unchanged.
func (c *Controller) Select(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		if stateErr := c.expect(model.StateAwaitingSelection, model.StateConfirming); stateErr != nil {
			return stateErr
		}
		return fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, strings.TrimSpace(input))
	}
	return c.SelectIndex(n - 1)
}

// SelectIndex selects a 0-based menu index
func (c *Controller) SelectIndex(i int) error {
	c.mu.Lock()
	if c.state != model.StateAwaitingSelection && c.state != model.StateConfirming {
		state := c.state
		c.mu.Unlock()
		return c.wrongState(state)
	}
	if i < 0 || i >= len(c.options) {
		count := len(c.options)
		c.mu.Unlock()
		return fmt.Errorf("%w: choose a number between 1 and %d", ErrInvalidSelection, count)
	}
	c.selected = i
	option := c.options[i]
	state := c.state
	c.mu.Unlock()

	c.log.Debug("quality selected", zap.String("format", option.Selector), zap.String("label", option.Label))
	if state != model.StateConfirming {
		c.transition(model.StateConfirming)
	}
	return nil
}

// Confirm answers the confirmation prompt with free text
func (c *Controller) Confirm(ctx context.Context, answer string) (string, error) {
	return c.Decide(ctx, IsAffirmative(answer))
}

// Decide answers the confirmation prompt. Declining returns ErrCancelled and
// goes back to AwaitingURL without downloading.
func (c *Controller) Decide(ctx context.Context, yes bool) (string, error) {
	if err := c.expect(model.StateConfirming); err != nil {
		return "", err
	}
	if !yes {
		c.log.Info("download cancelled", zap.String("url", c.URL()))
		c.transition(model.StateAwaitingURL)
		return "", ErrCancelled
	}
	return c.Download(ctx)
}

// Download runs the confirmed download. It blocks until the extractor
// returns and always leaves the controller Idle.
func (c *Controller) Download(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != model.StateConfirming || c.selected < 0 {
		state := c.state
		c.mu.Unlock()
		return "", c.wrongState(state)
	}
	url := c.url
	option := c.options[c.selected]
	title := c.metadata.TitleOr(c.untitled)
	dir := c.downloadDir
	mergeFormat := c.mergeFormat
	c.mu.Unlock()

	c.transition(model.StateDownloading)

	path, err := c.download(ctx, url, option, title, dir, mergeFormat)
	if err != nil {
		c.log.Error("download failed", zap.String("url", url), zap.String("format", option.Selector), zap.Error(err))
		c.transition(model.StateFailed)
		c.transition(model.StateIdle)
		return "", &DownloadError{URL: url, Selector: option.Selector, Err: err}
	}

	c.mu.Lock()
	c.lastPath = path
	c.mu.Unlock()

	c.log.Info("download completed", zap.String("url", url), zap.String("path", path))
	c.transition(model.StateCompleted)
	c.transition(model.StateIdle)
	return path, nil
}

func (c *Controller) download(ctx context.Context, url string, option model.QualityOption, title, dir, mergeFormat string) (string, error) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return c.ext.Download(ctx, extractor.Request{
		URL:            url,
		Selector:       option.Selector,
		OutputTemplate: quality.OutputTemplate(dir, title),
		MergeFormat:    mergeFormat,
		Progress:       c.onProgress,
	})
}

// expect fails unless the controller is in one of the given states
func (c *Controller) expect(states ...model.SessionState) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if slices.Contains(states, state) {
		return nil
	}
	return c.wrongState(state)
}

func (c *Controller) wrongState(state model.SessionState) error {
	if state.IsBusy() {
		return ErrBusy
	}
	return fmt.Errorf("%w: %s", ErrWrongState, state)
}

// transition moves to state `to` and notifies the state callback outside the lock
func (c *Controller) transition(to model.SessionState) {
	c.mu.Lock()
	from := c.state
	c.state = to
	cb := c.onState
	c.mu.Unlock()

	c.log.Debug("state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	if cb != nil {
		cb(from, to)
	}
}
