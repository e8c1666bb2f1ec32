package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// Backend selects the extractor implementation
type Backend string

const (
	// BackendYTDLP drives the yt-dlp executable
	BackendYTDLP Backend = "ytdlp"

	// BackendNative talks to YouTube directly and merges with ffmpeg
	BackendNative Backend = "native"
)

// Flag names
const (
	FlagDownloadDir  = "dir"
	FlagBackend      = "backend"
	FlagLanguage     = "lang"
	FlagMergeFormat  = "merge-format"
	FlagFetchTimeout = "timeout"
	FlagVerbose      = "verbose"
	FlagInstallYTDLP = "install-ytdlp"
)

// Environment variable prefix for every flag
const EnvPrefix = "YTPICKER_"

// Default values
const (
	DefaultDownloadDir  = "downloads"
	DefaultBackend      = BackendYTDLP
	DefaultLanguage     = "en"
	DefaultMergeFormat  = "mp4"
	DefaultFetchTimeout = 60 * time.Second
)

var supportedLanguages = []string{"en", "es", "system"}

var supportedMergeFormats = []string{"mp4", "mkv", "webm"}

// Settings holds the runtime configuration. It lives in memory only.
type Settings struct {
	DownloadDir  string
	Backend      Backend
	Language     string
	MergeFormat  string
	FetchTimeout time.Duration
	Verbose      bool
	InstallYTDLP bool
}

// Default returns the settings used when no flag or env var is given
func Default() Settings {
	return Settings{
		DownloadDir:  DefaultDownloadDir,
		Backend:      DefaultBackend,
		Language:     DefaultLanguage,
		MergeFormat:  DefaultMergeFormat,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Flags returns the command line flags backing Settings
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagDownloadDir,
			Aliases: []string{"d"},
			Value:   DefaultDownloadDir,
			Usage:   "save downloaded videos to `DIR`",
			EnvVars: []string{EnvPrefix + "DIR"},
		},
		&cli.StringFlag{
			Name:    FlagBackend,
			Value:   string(DefaultBackend),
			Usage:   "extractor `BACKEND`: ytdlp or native",
			EnvVars: []string{EnvPrefix + "BACKEND"},
		},
		&cli.StringFlag{
			Name:    FlagLanguage,
			Value:   DefaultLanguage,
			Usage:   "interface `LANG`: en, es or system",
			EnvVars: []string{EnvPrefix + "LANG"},
		},
		&cli.StringFlag{
			Name:    FlagMergeFormat,
			Value:   DefaultMergeFormat,
			Usage:   "container `FORMAT` for merged downloads",
			EnvVars: []string{EnvPrefix + "MERGE_FORMAT"},
		},
		&cli.DurationFlag{
			Name:    FlagFetchTimeout,
			Value:   DefaultFetchTimeout,
			Usage:   "give up fetching video information after `DURATION`",
			EnvVars: []string{EnvPrefix + "TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Usage:   "enable debug logging",
			EnvVars: []string{EnvPrefix + "VERBOSE"},
		},
		&cli.BoolFlag{
			Name:    FlagInstallYTDLP,
			Usage:   "download a yt-dlp binary if none is installed",
			EnvVars: []string{EnvPrefix + "INSTALL_YTDLP"},
		},
	}
}

// FromContext reads Settings from parsed flags and validates them
func FromContext(c *cli.Context) (Settings, error) {
	s := Settings{
		DownloadDir:  c.String(FlagDownloadDir),
		Backend:      Backend(c.String(FlagBackend)),
		Language:     c.String(FlagLanguage),
		MergeFormat:  c.String(FlagMergeFormat),
		FetchTimeout: c.Duration(FlagFetchTimeout),
		Verbose:      c.Bool(FlagVerbose),
		InstallYTDLP: c.Bool(FlagInstallYTDLP),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate normalises the settings and rejects unsupported values
func (s *Settings) Validate() error {
	s.DownloadDir = strings.TrimSpace(s.DownloadDir)
	if s.DownloadDir == "" {
		s.DownloadDir = DefaultDownloadDir
	}

	s.Backend = Backend(strings.ToLower(strings.TrimSpace(string(s.Backend))))
	switch s.Backend {
	case "":
		s.Backend = DefaultBackend
	case BackendYTDLP, BackendNative:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, BackendYTDLP, BackendNative)
	}

	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if !slices.Contains(supportedLanguages, s.Language) {
		return fmt.Errorf("unsupported language %q", s.Language)
	}

	s.MergeFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s.MergeFormat), "."))
	if s.MergeFormat == "" {
		s.MergeFormat = DefaultMergeFormat
	}
	if !slices.Contains(supportedMergeFormats, s.MergeFormat) {
		return fmt.Errorf("unsupported merge format %q", s.MergeFormat)
	}

	if s.FetchTimeout <= 0 {
		s.FetchTimeout = DefaultFetchTimeout
	}
	return nil
}
