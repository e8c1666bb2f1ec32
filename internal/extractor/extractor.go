package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/config"
	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/quality"
)

// Extractor is the contract both front-ends rely on through the session controller
type Extractor interface {
	// FetchMetadata resolves url into video metadata including every raw format
	FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error)
	// Download fetches the formats named by req.Selector and returns the final file path
	Download(ctx context.Context, req Request) (string, error)
}

// Request describes a single download
type Request struct {
	URL            string
	Selector       string
	OutputTemplate string
	MergeFormat    string
	Progress       func(model.Progress)
}

func (r Request) report(p model.Progress) {
	if r.Progress != nil {
		r.Progress(p)
	}
}

var (
	// ErrUnknownBackend is returned by New for an unsupported backend name
	ErrUnknownBackend = errors.New("unknown extractor backend")
	// ErrFormatNotFound is returned when a selector names a format the video does not offer
	ErrFormatNotFound = errors.New("requested format not available")
)

// New builds the extractor for the configured backend
func New(ctx context.Context, s config.Settings, log *zap.Logger) (Extractor, error) {
	switch s.Backend {
	case config.BackendYTDLP:
		y := NewYTDLP(log)
		if s.InstallYTDLP {
			if err := y.Install(ctx); err != nil {
				return nil, err
			}
		}
		return y, nil
	case config.BackendNative:
		return NewNative(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// ParseSelector splits "<id>" or "<id>+bestaudio" into the format id and
// whether a separate audio stream must be merged in.
func ParseSelector(selector string) (id string, withAudio bool) {
	if base, ok := strings.CutSuffix(selector, quality.BestAudioSuffix); ok {
		return base, true
	}
	return selector, false
}

// ResolveTemplate replaces the extension placeholder of an output template
func ResolveTemplate(template, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return strings.ReplaceAll(template, quality.ExtPlaceholder, ext)
}

// splitTemplate returns the directory and base name (without extension) of an output template
func splitTemplate(template string) (dir, base string) {
	dir = filepath.Dir(template)
	base = strings.TrimSuffix(filepath.Base(template), "."+quality.ExtPlaceholder)
	return dir, base
}
