package viewer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/seckatie/linklift/internal/core/domain"
)

// DefaultRefreshDelay is how long a retry of a failed download waits between
// asking for re-extraction and fetching the content again.
const DefaultRefreshDelay = 2 * time.Second

// Mode selects how completed content is shown.
type Mode int

const (
	ModeText Mode = iota
	ModeHTML
)

func (m Mode) String() string {
	if m == ModeHTML {
		return "html"
	}
	return "text"
}

// ParseMode accepts "text" or "html".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return ModeText, nil
	case "html":
		return ModeHTML, nil
	}
	return ModeText, fmt.Errorf("unknown view mode %q (want text or html)", s)
}

// View is one rendering of the viewer, ready for a template or a terminal.
type View struct {
	LinkID  string
	State   State
	Mode    Mode
	Message string
	// CanRetry is set for the error and failed states.
	CanRetry bool
	Content  *domain.Content
	// Text is the text view body of completed content.
	Text string
	// HTML is the sanitized HTML of completed content.
	HTML   string
	Footer *Footer
}

// Viewer renders the content of the link selected on its Watcher.
type Viewer struct {
	watcher   *Watcher
	clock     clock.Clock
	delay     time.Duration
	sanitizer *Sanitizer

	mu   sync.Mutex
	mode Mode
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(v *Viewer) { v.clock = c }
}

// WithRefreshDelay sets the wait used by Retry on failed downloads.
func WithRefreshDelay(d time.Duration) Option {
	return func(v *Viewer) { v.delay = d }
}

// New returns a Viewer over w, starting in text mode.
func New(w *Watcher, opts ...Option) *Viewer {
	v := &Viewer{
		watcher:   w,
		clock:     clock.WallClock,
		delay:     DefaultRefreshDelay,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Watcher returns the watcher the viewer reads from.
func (v *Viewer) Watcher() *Watcher { return v.watcher }

// Mode returns the current view mode.
func (v *Viewer) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SetMode switches between the text and HTML views.
func (v *Viewer) SetMode(m Mode) {
	v.mu.Lock()
	v.mode = m
	v.mu.Unlock()
}

// Toggle flips between the text and HTML views and returns the new mode.
func (v *Viewer) Toggle() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode == ModeText {
		v.mode = ModeHTML
	} else {
		v.mode = ModeText
	}
	return v.mode
}

// View builds the current rendering.
func (v *Viewer) View() View {
	snap := v.watcher.Snapshot()
	state := Resolve(snap)
	view := View{
		LinkID:   snap.LinkID,
		State:    state,
		Mode:     v.Mode(),
		Message:  StatusText(snap),
		CanRetry: state == StateError || state == StateFailed,
		Content:  snap.Data,
	}
	if snap.Data != nil {
		f := NewFooter(snap.Data, v.clock.Now())
		view.Footer = &f
	}
	if state == StateCompleted {
		view.Text = snap.Data.TextContent
		if view.Text == "" {
			view.Text = TextNoTextContent
		}
		view.HTML = v.sanitizer.Sanitize(snap.Data.HTMLContent)
	}
	return view
}

// Retry runs the retry action of the current state. In the error state it
// fetches again. In the failed state it asks for re-extraction, waits the
// refresh delay and then fetches again. Other states have no retry action.
func (v *Viewer) Retry(ctx context.Context) error {
	switch Resolve(v.watcher.Snapshot()) {
	case StateError:
		return v.watcher.Refetch(ctx)
	case StateFailed:
		if err := v.watcher.RefreshContent(ctx); err != nil {
			return err
		}
		select {
		case <-v.clock.After(v.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		return v.watcher.Refetch(ctx)
	}
	return nil
}

// Render writes the current view as plain text.
func (v *Viewer) Render(w io.Writer) error {
	view := v.View()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", view.State)
	if view.State == StateCompleted {
		fmt.Fprintf(&b, " (%s view)\n", view.Mode)
		if view.Mode == ModeHTML {
			b.WriteString(view.HTML)
		} else {
			b.WriteString(view.Text)
		}
	} else {
		b.WriteString(" " + view.Message)
	}
	b.WriteString("\n")

	if view.CanRetry {
		b.WriteString("Retry available.\n")
	}
	if view.Footer != nil {
		b.WriteString(strings.Repeat("-", 40) + "\n")
		b.WriteString(view.Footer.String() + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
