package viewer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/store"
)

// DefaultNavigateDelay is how long a successful submit waits before
// navigating away.
const DefaultNavigateDelay = 1500 * time.Millisecond

// AddLinkForm is the add-link form. Fields are edited directly; Submit
// validates them, creates the link and schedules navigation.
type AddLinkForm struct {
	URL         string
	Title       string
	Description string

	// Errors holds per-field messages from the last validation.
	Errors domain.FieldErrors
	// Message is the failure text of the last submit.
	Message string
	// Success is set after a successful submit.
	Success bool

	store    *store.Store
	clock    clock.Clock
	delay    time.Duration
	navigate func()

	mu      sync.Mutex
	pending clock.Timer
}

// FormOption configures an AddLinkForm.
type FormOption func(*AddLinkForm)

// WithFormClock replaces the wall clock, for tests.
func WithFormClock(c clock.Clock) FormOption {
	return func(f *AddLinkForm) { f.clock = c }
}

// WithNavigateDelay sets the wait before navigate is called.
func WithNavigateDelay(d time.Duration) FormOption {
	return func(f *AddLinkForm) { f.delay = d }
}

// NewAddLinkForm returns an empty form submitting through s. navigate is
// called once, after the navigate delay, following a successful submit.
func NewAddLinkForm(s *store.Store, navigate func(), opts ...FormOption) *AddLinkForm {
	f := &AddLinkForm{
		store:    s,
		clock:    clock.WallClock,
		delay:    DefaultNavigateDelay,
		navigate: navigate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *AddLinkForm) payload() domain.NewLink {
	return domain.NewLink{
		URL:         strings.TrimSpace(f.URL),
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
}

// Validate checks the fields and records the per-field messages. It reports
// whether the form can be submitted.
func (f *AddLinkForm) Validate() bool {
	f.Errors = f.payload().Validate()
	return len(f.Errors) == 0
}

// Reset empties the fields and clears messages.
func (f *AddLinkForm) Reset() {
	f.URL, f.Title, f.Description = "", "", ""
	f.Errors = nil
	f.Message = ""
}

// Submit validates the form and creates the link. An invalid form issues no
// call and returns the field errors. On failure the fields are kept and the
// store's message is recorded. On success the form is reset and navigation
// is scheduled.
func (f *AddLinkForm) Submit(ctx context.Context) (domain.Link, error) {
	f.Success = false
	f.Message = ""
	if !f.Validate() {
		return domain.Link{}, f.Errors
	}

	created, err := f.store.AddLink(ctx, f.payload())
	if err != nil {
		f.Message = f.store.Links().Message
		return domain.Link{}, err
	}

	f.Reset()
	f.Success = true
	if f.navigate != nil {
		f.mu.Lock()
		f.pending = f.clock.AfterFunc(f.delay, f.navigate)
		f.mu.Unlock()
	}
	return created, nil
}

// Close cancels a pending navigation.
func (f *AddLinkForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
}
