package core

import "time"

// Preview capture defaults.
const (
	DefaultPreviewTimeout = 30 * time.Second
	DefaultPreviewWidth   = 1280
	DefaultPreviewHeight  = 800
	// DefaultRenderDelay lets layout settle after the document is set.
	DefaultRenderDelay = 300 * time.Millisecond
)

// Screenshot quality; 100 produces PNG, anything lower JPEG.
const DefaultScreenshotQuality = 100
