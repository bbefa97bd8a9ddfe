package viewer

import (
	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
)

// State is the derived state of the content viewer. It is recomputed from a
// Snapshot on every render and never stored.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StateDownloading
	StateFailed
	StateCompleted
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateDownloading:
		return "downloading"
	case StateFailed:
		return "failed"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Resolve derives the viewer state. The checks run in a fixed order: loading
// wins over an error, an error over missing data, and only then is the
// download status inspected.
func Resolve(s Snapshot) State {
	switch {
	case s.IsLoading:
		return StateLoading
	case s.Err != nil:
		return StateError
	case s.Data == nil:
		return StateEmpty
	}

	switch s.Data.Status {
	case domain.StatusPending, domain.StatusInProgress:
		return StateDownloading
	case domain.StatusFailed:
		return StateFailed
	case domain.StatusCompleted:
		return StateCompleted
	default:
		return StateUnknown
	}
}

// Texts shown by the viewer.
const (
	TextLoading        = "Loading content..."
	TextRefreshing     = "Refreshing content..."
	TextEmpty          = "No content available"
	TextPending        = "Content download pending..."
	TextDownloading    = "Downloading content..."
	TextDownloadFailed = "Content download failed."
	TextUnknownStatus  = "Unknown status"
	TextNoTextContent  = "No text content available"
	TextGenericError   = "An error occurred while loading content"
	TextNetworkError   = "Unable to connect to server. Please check your connection."
	TextNotFoundError  = "Content not found for this link."
	TextForbiddenError = "You are not allowed to view this content. Please login again."
	TextServerError    = "Server error. Please try again later."
)

// ErrorText picks the message for an error state from the error's category.
// fallback, usually the store's message, is used for generic failures.
func ErrorText(err error, fallback string) string {
	switch api.Classify(err) {
	case api.CategoryNetwork:
		return TextNetworkError
	case api.CategoryNotFound:
		return TextNotFoundError
	case api.CategoryForbidden:
		return TextForbiddenError
	case api.CategoryServer:
		return TextServerError
	}
	if fallback != "" {
		return fallback
	}
	return TextGenericError
}

// StatusText is the message shown for a snapshot in any state but Completed.
func StatusText(s Snapshot) string {
	switch Resolve(s) {
	case StateLoading:
		if s.Data != nil {
			return TextRefreshing
		}
		return TextLoading
	case StateError:
		return ErrorText(s.Err, s.Message)
	case StateEmpty:
		return TextEmpty
	case StateDownloading:
		if s.Data.Status == domain.StatusPending {
			return TextPending
		}
		return TextDownloading
	case StateFailed:
		return TextDownloadFailed
	case StateUnknown:
		return TextUnknownStatus
	}
	return ""
}
