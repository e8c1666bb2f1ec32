package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/config"
	"github.com/ytget/yt-picker/internal/extractor"
	"github.com/ytget/yt-picker/internal/i18n"
	"github.com/ytget/yt-picker/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	cliApp := &cli.App{
		Name:            "yt-picker-gui",
		Usage:           "desktop YouTube quality picker and downloader",
		Version:         version,
		Flags:           config.Flags(),
		Action:          run,
		HideHelpCommand: true,
	}

	// fyne must own the main goroutine, so the app runs synchronously here
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	settings, err := config.FromContext(c)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(settings.Verbose)
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	defer logger.Sync()
	defer zap.RedirectStdLog(logger)()

	logger.Info("YT Picker starting", zap.String("version", version), zap.String("backend", string(settings.Backend)))

	ctx := context.Background()
	ext, err := extractor.New(ctx, settings, logger)
	if err != nil {
		return err
	}

	loc := i18n.NewLocalization()
	loc.SetLanguage(settings.Language)

	myApp := app.NewWithID(ui.AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	window := myApp.NewWindow(loc.GetText(i18n.KeyAppTitle))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	ui.NewRootUI(ctx, window, ext, settings, loc, logger)

	window.ShowAndRun()
	return nil
}
