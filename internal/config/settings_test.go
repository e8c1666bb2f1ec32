package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
)

func parse(t *testing.T, args ...string) (Settings, error) {
	t.Helper()
	var (
		got    Settings
		gotErr error
	)
	app := &cli.App{
		Name:    "test",
		Version: "dev",
		Flags:   Flags(),
		Action: func(c *cli.Context) error {
			got, gotErr = FromContext(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	return got, gotErr
}

func TestFromContext_Defaults(t *testing.T) {
	s, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestFromContext_Flags(t *testing.T) {
	s, err := parse(t,
		"--dir", "/tmp/videos",
		"--backend", "NATIVE",
		"--lang", "es",
		"--merge-format", ".mkv",
		"--timeout", "5s",
		"--verbose",
	)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/videos", s.DownloadDir)
	assert.Equal(t, BackendNative, s.Backend)
	assert.Equal(t, "es", s.Language)
	assert.Equal(t, "mkv", s.MergeFormat)
	assert.Equal(t, 5*time.Second, s.FetchTimeout)
	assert.True(t, s.Verbose)
	assert.False(t, s.InstallYTDLP)
}

func TestFlags_NoShortAliasClash(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range cli.VersionFlag.Names() {
		seen[name] = true
	}
	for _, name := range cli.HelpFlag.Names() {
		seen[name] = true
	}

	for _, f := range Flags() {
		for _, name := range f.Names() {
			assert.False(t, seen[name], "flag name %q is already taken", name)
			seen[name] = true
		}
	}
}

func TestFromContext_EnvVars(t *testing.T) {
	t.Setenv(EnvPrefix+"DIR", "/srv/media")
	t.Setenv(EnvPrefix+"LANG", "es")

	s, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "/srv/media", s.DownloadDir)
	assert.Equal(t, "es", s.Language)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
		check   func(t *testing.T, s Settings)
	}{
		{
			name:    "unknown backend",
			mutate:  func(s *Settings) { s.Backend = "youtube-dl" },
			wantErr: "unknown backend",
		},
		{
			name:    "unsupported language",
			mutate:  func(s *Settings) { s.Language = "ru" },
			wantErr: "unsupported language",
		},
		{
			name:    "unsupported merge format",
			mutate:  func(s *Settings) { s.MergeFormat = "avi" },
			wantErr: "unsupported merge format",
		},
		{
			name: "blank values fall back to defaults",
			mutate: func(s *Settings) {
				s.DownloadDir = "  "
				s.Backend = ""
				s.Language = ""
				s.MergeFormat = ""
				s.FetchTimeout = 0
			},
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, Default(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
