package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/viewer"
)

// ErrNoHTMLContent is returned when a link has no completed HTML to preview.
var ErrNoHTMLContent = errors.New("no HTML content available")

// PreviewOptions controls how the sanitized preview is captured.
//
// This uses a real Chrome/Chromium browser (via the DevTools protocol) with
// script execution disabled. The document is set directly, so nothing is
// fetched except the images it references.
type PreviewOptions struct {
	// ChromePath optionally overrides the Chrome/Chromium executable path.
	ChromePath string
	// Headless controls whether Chrome runs without a visible window.
	Headless bool
	// Timeout is the deadline for rendering and capture.
	// If <= 0, DefaultPreviewTimeout is used.
	Timeout time.Duration
	// Width and Height size the browser window.
	Width, Height int
	// Quality is the screenshot quality; 100 produces PNG.
	Quality int
}

func (o *PreviewOptions) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultPreviewTimeout
	}
	if o.Width <= 0 {
		o.Width = DefaultPreviewWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultPreviewHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultScreenshotQuality
	}
}

// PreviewResult is the captured output of one preview.
type PreviewResult struct {
	LinkID string
	Title  string
	// HTML is the sanitized, rebased document that was rendered.
	HTML string
	// Screenshot is the full-page capture, PNG unless Quality < 100.
	Screenshot []byte
}

// PreparePreview sanitizes the content's HTML and, when baseURL is set,
// rewrites relative URLs against it.
func PreparePreview(c domain.Content, baseURL string, s *viewer.Sanitizer) (RebaseResult, error) {
	if c.Status != domain.StatusCompleted || strings.TrimSpace(c.HTMLContent) == "" {
		return RebaseResult{}, ErrNoHTMLContent
	}

	clean := s.Sanitize(c.HTMLContent)
	res := RebaseResult{HTML: clean}
	if baseURL != "" {
		var err error
		res, err = RebaseHTML(clean, baseURL)
		if err != nil {
			return RebaseResult{}, err
		}
	}
	if c.ExtractedTitle != "" {
		res.Title = c.ExtractedTitle
	}
	return res, nil
}

// CapturePreview renders html in Chrome and returns a full-page screenshot
// and the document title.
func CapturePreview(ctx context.Context, html string, opts PreviewOptions) (PreviewResult, error) {
	opts.applyDefaults()

	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocatorOpts = append(allocatorOpts,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ChromePath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ChromePath))
	}
	if opts.Headless {
		allocatorOpts = append(allocatorOpts, chromedp.Headless)
	} else {
		allocatorOpts = append(allocatorOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelRun()

	setDocument := func(ctx context.Context) error {
		if err := emulation.SetScriptExecutionDisabled(true).Do(ctx); err != nil {
			return fmt.Errorf("failed to disable scripts: %w", err)
		}
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to get frame tree: %w", err)
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	}

	var title string
	var shot []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(setDocument),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(DefaultRenderDelay),
		chromedp.Title(&title),
		chromedp.FullScreenshot(&shot, opts.Quality),
	)
	if err != nil {
		return PreviewResult{}, err
	}

	return PreviewResult{Title: strings.TrimSpace(title), HTML: html, Screenshot: shot}, nil
}

// PreviewRunOptions describes one preview run.
type PreviewRunOptions struct {
	LinkID string
	// BaseURL is the link's URL; relative references are resolved against it.
	BaseURL string
	// Capture disables the browser step when false; only HTML is produced.
	Capture bool
	Options PreviewOptions
}

// ContentFetcher loads a link's content.
type ContentFetcher interface {
	Execute(ctx context.Context, linkID string) (domain.Content, error)
}

// RunPreview is the top-level preview workflow: fetch the content, sanitize
// and rebase it, then optionally capture it in Chrome.
func RunPreview(ctx context.Context, fetch ContentFetcher, s *viewer.Sanitizer, opts PreviewRunOptions, log logrus.FieldLogger) (PreviewResult, error) {
	if opts.LinkID == "" {
		return PreviewResult{}, errors.New("link id is required")
	}
	log = log.WithField("link_id", opts.LinkID)

	c, err := fetch.Execute(ctx, opts.LinkID)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("failed to load content: %w", err)
	}

	prepared, err := PreparePreview(c, opts.BaseURL, s)
	if err != nil {
		return PreviewResult{}, err
	}
	res := PreviewResult{LinkID: opts.LinkID, Title: prepared.Title, HTML: prepared.HTML}
	if !opts.Capture {
		return res, nil
	}

	log.Debug("capturing preview")
	captured, err := CapturePreview(ctx, prepared.HTML, opts.Options)
	if err != nil {
		return res, fmt.Errorf("failed to capture preview: %w", err)
	}
	res.Screenshot = captured.Screenshot
	if res.Title == "" {
		res.Title = captured.Title
	}
	log.WithField("bytes", len(res.Screenshot)).Info("preview captured")
	return res, nil
}
