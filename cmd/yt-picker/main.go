package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/async"
	"github.com/ytget/yt-picker/internal/config"
	"github.com/ytget/yt-picker/internal/console"
	"github.com/ytget/yt-picker/internal/extractor"
	"github.com/ytget/yt-picker/internal/i18n"
	"github.com/ytget/yt-picker/internal/platform"
	"github.com/ytget/yt-picker/internal/session"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// env holds what every command needs once flags are parsed
type env struct {
	settings config.Settings
	log      *zap.Logger
	loc      *i18n.Localization
	undo     func()
	once     sync.Once
}

// cleanups holds the envs opened by a run so main can close them when it
// leaves without waiting for the app goroutine
type cleanups struct {
	mu   sync.Mutex
	envs []*env
}

func (c *cleanups) add(e *env) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.envs = append(c.envs, e)
}

func (c *cleanups) closeAll() {
	c.mu.Lock()
	envs := c.envs
	c.envs = nil
	c.mu.Unlock()

	for i := len(envs) - 1; i >= 0; i-- {
		envs[i].close()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loc := i18n.NewLocalization()
	pending := &cleanups{}
	app := newApp(ctx, os.Stdin, os.Stdout, loc, pending)

	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err := <-result:
		if err != nil {
			fmt.Fprintln(os.Stderr, loc.Textf(i18n.KeyFatal, err))
			stop()
			os.Exit(1)
		}
	case <-ctx.Done():
		// the prompt may be blocked on stdin; leave without waiting for it
		fmt.Fprintln(os.Stdout, "\n"+loc.GetText(i18n.KeyInterrupted))
		pending.closeAll()
	}
}

func newApp(ctx context.Context, in io.Reader, out io.Writer, loc *i18n.Localization, pending *cleanups) *cli.App {
	return &cli.App{
		Name:      "yt-picker",
		Usage:     "pick a quality and download a YouTube video",
		Version:   version,
		Flags:     config.Flags(),
		Writer:    out,
		ErrWriter: os.Stderr,
		Action: func(c *cli.Context) error {
			e, err := setup(c, loc, pending)
			if err != nil {
				return err
			}
			defer e.close()
			return interactive(ctx, e, in, out)
		},
		Commands: []*cli.Command{
			{
				Name:      "playlist",
				Usage:     "list the videos of a playlist",
				ArgsUsage: "URL",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("playlist needs exactly one URL", 2)
					}
					e, err := setup(c, loc, pending)
					if err != nil {
						return err
					}
					defer e.close()
					return listPlaylist(ctx, e, c.Args().First(), out)
				},
			},
		},
		HideHelpCommand: true,
	}
}

func setup(c *cli.Context, loc *i18n.Localization, pending *cleanups) (*env, error) {
	settings, err := config.FromContext(c)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(settings.Verbose)
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	undo := zap.RedirectStdLog(logger)

	loc.SetLanguage(settings.Language)
	logger.Debug("starting", zap.String("version", version), zap.String("backend", string(settings.Backend)))

	e := &env{settings: settings, log: logger, loc: loc, undo: undo}
	pending.add(e)
	return e, nil
}

// close syncs the logger and restores the standard logger; safe to call twice
func (e *env) close() {
	e.once.Do(func() {
		e.undo()
		_ = e.log.Sync()
	})
}

// interactive runs the prompt loop until the user exits
func interactive(ctx context.Context, e *env, in io.Reader, out io.Writer) error {
	if err := platform.CreateDirectoryIfNotExists(e.settings.DownloadDir); err != nil {
		return err
	}

	ext, err := extractor.New(ctx, e.settings, e.log)
	if err != nil {
		return err
	}

	prompter := console.NewPrompter(in, out, e.loc, e.log)
	opts := append(prompter.SessionOptions(),
		session.WithLogger(e.log),
		session.WithDownloadDir(e.settings.DownloadDir),
		session.WithMergeFormat(e.settings.MergeFormat),
		session.WithFetchTimeout(e.settings.FetchTimeout),
	)

	err = prompter.Run(ctx, session.New(ext, opts...))
	var unhandled *session.UnhandledError
	if errors.As(err, &unhandled) {
		// already reported by the prompter
		return cli.Exit("", 1)
	}
	return err
}

// listPlaylist prints the entries of a playlist, 1-indexed
func listPlaylist(ctx context.Context, e *env, url string, out io.Writer) error {
	parser := platform.NewPlaylistParser()
	parser.SetTimeout(e.settings.FetchTimeout)

	e.log.Debug("parsing playlist", zap.String("url", url))
	playlist, err := parser.ParsePlaylist(ctx, url)
	if err != nil {
		return err
	}

	if playlist.Len() == 0 {
		fmt.Fprintln(out, e.loc.GetText(i18n.KeyPlaylistEmpty))
		return nil
	}

	fmt.Fprintln(out, e.loc.Textf(i18n.KeyPlaylistHeader, playlist.Title, playlist.Len()))
	for i, entry := range playlist.Entries {
		fmt.Fprintf(out, "%3d. %s\n     %s\n", i+1, entry.Title, entry.URL)
	}
	return nil
}
