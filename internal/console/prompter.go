package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/ytget/yt-picker/internal/i18n"
	"github.com/ytget/yt-picker/internal/model"
	"github.com/ytget/yt-picker/internal/platform"
	"github.com/ytget/yt-picker/internal/quality"
	"github.com/ytget/yt-picker/internal/session"
)

// Layout constants
const (
	SeparatorWidth  = 50
	ProgressWidth   = 10
	ProgressRefresh = 65 * time.Millisecond
)

// Prompter drives a session from line input
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	loc  *i18n.Localization
	log  *zap.Logger
	ctrl *session.Controller

	bar     *progressbar.ProgressBar
	merging bool
}

// NewPrompter creates a prompter reading from in and writing to out
func NewPrompter(in io.Reader, out io.Writer, loc *i18n.Localization, log *zap.Logger) *Prompter {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = i18n.NewLocalization()
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
		loc: loc,
		log: log,
	}
}

// SessionOptions wires the prompter's renderers into a controller
func (p *Prompter) SessionOptions() []session.Option {
	return []session.Option{
		session.WithStateCallback(p.onState),
		session.WithProgress(p.onProgress),
		session.WithUntitledName(p.loc.GetText(i18n.KeyUntitled)),
	}
}

// Run loops over lookups until the user exits, input ends or ctx is done.
// A panic inside a lookup ends the session with an *session.UnhandledError.
func (p *Prompter) Run(ctx context.Context, ctrl *session.Controller) error {
	p.ctrl = ctrl

	p.println(p.loc.GetText(i18n.KeyBanner))
	p.separator()

	for {
		if ctx.Err() != nil {
			p.println("\n" + p.loc.GetText(i18n.KeyInterrupted))
			return nil
		}

		err := p.safeLookup(ctx)
		var unhandled *session.UnhandledError
		switch {
		case err == nil:
			p.println("")
			p.separator()
		case errors.Is(err, session.ErrExitRequested), errors.Is(err, io.EOF):
			p.println(p.loc.GetText(i18n.KeyGoodbye))
			return nil
		case ctx.Err() != nil:
			p.println("\n" + p.loc.GetText(i18n.KeyInterrupted))
			return nil
		case errors.As(err, &unhandled):
			p.log.Error("session aborted", zap.Error(err))
			p.println(p.loc.Textf(i18n.KeyFatal, unhandled.Value))
			return err
		default:
			return err
		}
	}
}

func (p *Prompter) safeLookup(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &session.UnhandledError{Value: r}
		}
	}()
	return p.lookup(ctx)
}

// lookup runs one URL → download cycle. Recoverable faults are printed and
// end the cycle with a nil error.
func (p *Prompter) lookup(ctx context.Context) error {
	if err := p.ctrl.StartLookup(); err != nil {
		return err
	}

	if err := p.askURL(ctx); err != nil {
		return err
	}

	p.printInfo(p.ctrl.Metadata())

	options, err := p.ctrl.PresentOptions()
	if err != nil {
		return err
	}
	p.println("\n" + p.loc.GetText(i18n.KeyAvailable))
	for i, o := range options {
		p.printf("  %d. %s\n", i+1, o.Label)
	}

	if err := p.askSelection(len(options)); err != nil {
		return err
	}

	option, _ := p.ctrl.Selected()
	p.println("\n" + p.loc.Textf(i18n.KeyConfirmQuality, quality.ShortLabel(option)))
	answer, err := p.readLine(p.loc.GetText(i18n.KeyConfirmPrompt))
	if err != nil {
		return err
	}

	_, err = p.ctrl.Confirm(ctx, answer)
	p.finishBar()

	var dlErr *session.DownloadError
	switch {
	case err == nil:
		p.println(p.loc.GetText(i18n.KeyDownloadDone))
		p.println(p.loc.Textf(i18n.KeyLocation, platform.AbsDir(p.ctrl.DownloadDir())))
		return nil
	case errors.Is(err, session.ErrCancelled):
		p.println(p.loc.GetText(i18n.KeyCancelled))
		return nil
	case errors.As(err, &dlErr):
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.printError(dlErr.Err)
		return nil
	default:
		return err
	}
}

// askURL prompts until the controller accepts a URL
func (p *Prompter) askURL(ctx context.Context) error {
	for {
		p.println("\n" + p.loc.GetText(i18n.KeyEnterURLPrompt) + " " + p.loc.GetText(i18n.KeyExitHint))
		line, err := p.readLine(p.loc.GetText(i18n.KeyURLLabel))
		if err != nil {
			return err
		}

		err = p.ctrl.SubmitURL(ctx, line)
		var fetchErr *session.MetadataFetchError
		switch {
		case err == nil:
			return nil
		case errors.Is(err, session.ErrEmptyURL):
			p.println(p.loc.GetText(i18n.KeyPleaseEnterURL))
		case errors.Is(err, session.ErrInvalidURL):
			p.println(p.loc.GetText(i18n.KeyInvalidURL))
		case errors.Is(err, session.ErrNoFormats):
			p.printInfo(p.ctrl.Metadata())
			p.println(p.loc.GetText(i18n.KeyNoFormats))
		case errors.As(err, &fetchErr):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.printError(fetchErr.Err)
		default:
			return err
		}
	}
}

// askSelection prompts until a valid menu index is chosen
func (p *Prompter) askSelection(count int) error {
	for {
		line, err := p.readLine("\n" + p.loc.Textf(i18n.KeySelectQuality, count) + " " + p.loc.GetText(i18n.KeyOptionLabel))
		if err != nil {
			return err
		}

		err = p.ctrl.Select(line)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, session.ErrInvalidSelection):
			if _, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr != nil {
				p.println(p.loc.GetText(i18n.KeyNotANumber))
			} else {
				p.println(p.loc.Textf(i18n.KeySelectRange, count))
			}
		default:
			return err
		}
	}
}

func (p *Prompter) printInfo(meta *model.VideoMetadata) {
	if meta == nil {
		return
	}
	p.println("")
	p.printf("📺 %s: %s\n", p.loc.GetText(i18n.KeyTitle), meta.TitleOr(p.loc.GetText(i18n.KeyUntitled)))
	p.printf("👤 %s: %s\n", p.loc.GetText(i18n.KeyChannel), meta.UploaderOr(p.loc.GetText(i18n.KeyUnknownUploader)))
	if d := meta.DurationString(); d != "" {
		p.printf("⏱️  %s: %s\n", p.loc.GetText(i18n.KeyDuration), d)
	}
}

func (p *Prompter) printError(err error) {
	p.println(p.loc.Textf(i18n.KeyError, err))
	p.println(p.loc.GetText(i18n.KeyRetryHint))
}

func (p *Prompter) onState(from, to model.SessionState) {
	switch to {
	case model.StateFetchingInfo:
		p.println(p.loc.GetText(i18n.KeyFetchingInfo))
	case model.StateDownloading:
		title := p.loc.GetText(i18n.KeyUntitled)
		if meta := p.ctrl.Metadata(); meta != nil {
			title = meta.TitleOr(title)
		}
		p.println("\n" + p.loc.Textf(i18n.KeyDownloadingTitle, title))
		p.bar = p.newBar(p.loc.GetText(i18n.KeyDownloading))
		p.merging = false
	}
}

func (p *Prompter) onProgress(pr model.Progress) {
	if p.bar == nil {
		return
	}
	if pr.Merging && !p.merging {
		p.merging = true
		p.finishBar()
		p.bar = p.newBar(p.loc.GetText(i18n.KeyMerging))
	}
	if pr.Total > 0 && int64(p.bar.GetMax()) != pr.Total {
		p.bar.ChangeMax(int(pr.Total))
	}
	if err := p.bar.Set(int(pr.Downloaded)); err != nil {
		p.log.Debug("progress bar update failed", zap.Error(err))
	}
}

func (p *Prompter) newBar(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(ProgressWidth),
		progressbar.OptionThrottle(ProgressRefresh),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.out) }),
	)
}

func (p *Prompter) finishBar() {
	if p.bar == nil {
		return
	}
	if p.bar.GetMax() > 0 {
		_ = p.bar.Finish()
	} else {
		_ = p.bar.Clear()
		fmt.Fprintln(p.out)
	}
	p.bar = nil
}

// readLine prints prompt and returns the next input line. A final line
// without newline is returned; io.EOF only once input is exhausted.
func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) separator() {
	p.println(strings.Repeat("=", SeparatorWidth))
}
