package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/model"
)

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDownloadDir sets the initial destination directory
func WithDownloadDir(dir string) Option {
	return func(c *Controller) { c.downloadDir = dir }
}

// WithMergeFormat sets the container split streams are merged into
func WithMergeFormat(format string) Option {
	return func(c *Controller) { c.mergeFormat = format }
}

// WithUntitledName sets the file name used for videos without a title
func WithUntitledName(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.untitled = name
		}
	}
}

// WithFetchTimeout bounds the metadata query; zero disables the bound
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

// WithStateCallback registers a callback for every state transition.
// It runs on the goroutine that issued the command.
func WithStateCallback(fn func(from, to model.SessionState)) Option {
	return func(c *Controller) { c.onState = fn }
}

// WithProgress registers a download progress callback
func WithProgress(fn func(model.Progress)) Option {
	return func(c *Controller) { c.onProgress = fn }
}
