package domain

// DownloadStatus describes how far the backend got extracting a link's content.
type DownloadStatus string

const (
	StatusPending    DownloadStatus = "PENDING"
	StatusInProgress DownloadStatus = "IN_PROGRESS"
	StatusCompleted  DownloadStatus = "COMPLETED"
	StatusFailed     DownloadStatus = "FAILED"
)

// Known reports whether s is one of the statuses the backend documents.
func (s DownloadStatus) Known() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the backend will not move s any further without
// an explicit refresh.
func (s DownloadStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Content is the backend's extracted representation of a link's target page.
// There is exactly one Content per Link.
type Content struct {
	ID                   string         `json:"id"`
	LinkID               string         `json:"linkId"`
	HTMLContent          string         `json:"htmlContent,omitempty"`
	TextContent          string         `json:"textContent,omitempty"`
	ContentLength        *int64         `json:"contentLength,omitempty"`
	DownloadedAt         string         `json:"downloadedAt,omitempty"`
	MimeType             string         `json:"mimeType,omitempty"`
	Status               DownloadStatus `json:"status"`
	Summary              string         `json:"summary,omitempty"`
	HeroImageURL         string         `json:"heroImageUrl,omitempty"`
	ExtractedTitle       string         `json:"extractedTitle,omitempty"`
	ExtractedDescription string         `json:"extractedDescription,omitempty"`
	Author               string         `json:"author,omitempty"`
	PublishedDate        string         `json:"publishedDate,omitempty"`
}
