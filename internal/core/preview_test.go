package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/viewer"
)

type fakeFetcher struct {
	content domain.Content
	err     error
	calls   []string
}

func (f *fakeFetcher) Execute(_ context.Context, linkID string) (domain.Content, error) {
	f.calls = append(f.calls, linkID)
	return f.content, f.err
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func completed(html string) domain.Content {
	return domain.Content{ID: "c1", LinkID: "l1", Status: domain.StatusCompleted, HTMLContent: html}
}

func TestPreviewOptionsDefaults(t *testing.T) {
	opts := PreviewOptions{Quality: 150}
	opts.applyDefaults()

	if opts.Timeout != DefaultPreviewTimeout {
		t.Errorf("Timeout = %v, want %v", opts.Timeout, DefaultPreviewTimeout)
	}
	if opts.Width != DefaultPreviewWidth || opts.Height != DefaultPreviewHeight {
		t.Errorf("size = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultPreviewWidth, DefaultPreviewHeight)
	}
	if opts.Quality != DefaultScreenshotQuality {
		t.Errorf("Quality = %d, want %d", opts.Quality, DefaultScreenshotQuality)
	}

	custom := PreviewOptions{Timeout: time.Second, Width: 10, Height: 20, Quality: 80}
	custom.applyDefaults()
	if custom.Timeout != time.Second || custom.Width != 10 || custom.Height != 20 || custom.Quality != 80 {
		t.Errorf("custom options changed: %+v", custom)
	}
}

func TestPreparePreview(t *testing.T) {
	s := viewer.NewSanitizer()

	t.Run("sanitizes and rebases", func(t *testing.T) {
		c := completed(`<div><script>alert(1)</script><a href="/x" onclick="y()">x</a><iframe src="/f"></iframe></div>`)
		res, err := PreparePreview(c, "https://example.com/a", s)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, banned := range []string{"<script", "onclick", "<iframe"} {
			if strings.Contains(res.HTML, banned) {
				t.Errorf("HTML should not contain %q:\n%s", banned, res.HTML)
			}
		}
		if !strings.Contains(res.HTML, `href="https://example.com/x"`) {
			t.Errorf("expected rebased link, got:\n%s", res.HTML)
		}
	})

	t.Run("without base URL only sanitizes", func(t *testing.T) {
		res, err := PreparePreview(completed(`<p><a href="/x">x</a></p>`), "", s)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.HTML != `<p><a href="/x">x</a></p>` {
			t.Errorf("HTML = %q", res.HTML)
		}
	})

	t.Run("extracted title wins", func(t *testing.T) {
		c := completed(`<h1>Heading</h1>`)
		c.ExtractedTitle = "Extracted"
		res, err := PreparePreview(c, "https://example.com/", s)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Title != "Extracted" {
			t.Errorf("Title = %q, want Extracted", res.Title)
		}
	})

	t.Run("not completed", func(t *testing.T) {
		c := completed("<p>x</p>")
		c.Status = domain.StatusPending
		if _, err := PreparePreview(c, "", s); !errors.Is(err, ErrNoHTMLContent) {
			t.Errorf("expected ErrNoHTMLContent, got %v", err)
		}
	})

	t.Run("empty HTML", func(t *testing.T) {
		if _, err := PreparePreview(completed("  "), "", s); !errors.Is(err, ErrNoHTMLContent) {
			t.Errorf("expected ErrNoHTMLContent, got %v", err)
		}
	})
}

func TestRunPreview_WithoutCapture(t *testing.T) {
	f := &fakeFetcher{content: completed(`<h2>Hello</h2>`)}
	res, err := RunPreview(context.Background(), f, viewer.NewSanitizer(), PreviewRunOptions{
		LinkID:  "l1",
		BaseURL: "https://example.com/",
	}, discardLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(f.calls) != 1 || f.calls[0] != "l1" {
		t.Errorf("fetch calls = %v, want [l1]", f.calls)
	}
	if res.LinkID != "l1" || res.Title != "Hello" {
		t.Errorf("result = %+v", res)
	}
	if res.Screenshot != nil {
		t.Error("Screenshot should be nil without capture")
	}
}

func TestRunPreview_Errors(t *testing.T) {
	s := viewer.NewSanitizer()

	t.Run("missing link id", func(t *testing.T) {
		f := &fakeFetcher{}
		if _, err := RunPreview(context.Background(), f, s, PreviewRunOptions{}, discardLogger()); err == nil {
			t.Error("expected error")
		}
		if len(f.calls) != 0 {
			t.Error("expected no fetch")
		}
	})

	t.Run("fetch failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		f := &fakeFetcher{err: boom}
		_, err := RunPreview(context.Background(), f, s, PreviewRunOptions{LinkID: "l1"}, discardLogger())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})
}

// TestCapturePreview_RequiresBrowser is skipped in short mode and when
// Chrome is not available.
func TestCapturePreview_RequiresBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := CapturePreview(ctx, `<html><head><title>Preview</title></head><body><p>hi</p></body></html>`, PreviewOptions{
		Headless: true,
		Timeout:  20 * time.Second,
	})
	if err != nil {
		t.Skipf("Chrome not available or failed: %v", err)
	}
	if len(result.Screenshot) == 0 {
		t.Error("Screenshot should not be empty")
	}
	if result.Title != "Preview" {
		t.Logf("Title = %q", result.Title)
	}
}
