package domain

// Link is a stored URL with user-supplied title and description.
type Link struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// ExtractedAt is assigned by the backend and kept as the raw timestamp text.
	ExtractedAt string `json:"extractedAt,omitempty"`
}

// NewLink is the payload for creating a link.
type NewLink struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LinkUpdate carries the editable fields of a link.
type LinkUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
