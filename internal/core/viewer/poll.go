package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/juju/clock"

	"github.com/seckatie/linklift/internal/core/domain"
)

// DefaultPollInterval is the fixed wait between polls in WaitForTerminal.
const DefaultPollInterval = 2 * time.Second

// ErrNoLinkSelected is returned when polling without a selected link.
var ErrNoLinkSelected = errors.New("no link selected")

// WaitForTerminal fetches the selected link's content every interval until
// its status is COMPLETED or FAILED, a fetch fails, or ctx is done. The
// interval is fixed.
func WaitForTerminal(ctx context.Context, w *Watcher, clk clock.Clock, interval time.Duration) (domain.Content, error) {
	if w.LinkID() == "" {
		return domain.Content{}, ErrNoLinkSelected
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		if err := w.Refetch(ctx); err != nil {
			return domain.Content{}, err
		}
		snap := w.Snapshot()
		if snap.Data != nil && snap.Data.Status.Terminal() {
			return *snap.Data, nil
		}

		select {
		case <-clk.After(interval):
		case <-ctx.Done():
			return domain.Content{}, ctx.Err()
		}
	}
}
