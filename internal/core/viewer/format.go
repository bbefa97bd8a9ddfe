package viewer

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/seckatie/linklift/internal/core/domain"
)

// timestampLayouts are tried in order. The backend sends RFC 3339 or a local
// date-time without zone; fractional seconds are accepted by both.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatBytes renders a content length with IEC units. A missing length is
// shown as zero.
func FormatBytes(n *int64) string {
	if n == nil || *n < 0 {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(uint64(*n))
}

// FormatDate renders a timestamp relative to now: "Just now" under a minute,
// "5 minutes ago" style within a week, then a plain date.
func FormatDate(raw string, now time.Time) string {
	if raw == "" {
		return "N/A"
	}
	t, ok := parseTimestamp(raw)
	if !ok {
		return raw
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < 7*24*time.Hour:
		return humanize.RelTime(t, now, "ago", "from now")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Footer is the metadata line under the content.
type Footer struct {
	Size       string
	Type       string
	Downloaded string
}

// NewFooter builds the footer of c.
func NewFooter(c *domain.Content, now time.Time) Footer {
	f := Footer{
		Size:       FormatBytes(c.ContentLength),
		Type:       c.MimeType,
		Downloaded: FormatDate(c.DownloadedAt, now),
	}
	if f.Type == "" {
		f.Type = "N/A"
	}
	return f
}

func (f Footer) String() string {
	return "Size: " + f.Size + " | Type: " + f.Type + " | Downloaded: " + f.Downloaded
}
