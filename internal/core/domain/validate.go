package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when a link URL fails validation.
var ErrInvalidURL = errors.New("invalid URL")

// Field names used in validation results.
const (
	FieldURL         = "url"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldName        = "name"
)

// ValidateLinkURL validates that a URL is acceptable for a link.
// It requires the URL to have http or https scheme and a non-empty host.
func ValidateLinkURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

// Error joins the messages in field order so the output is stable.
func (fe FieldErrors) Error() string {
	var parts []string
	for _, f := range []string{FieldURL, FieldTitle, FieldDescription, FieldName} {
		if msg, ok := fe[f]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Validate checks every field of a new link.
func (n NewLink) Validate() FieldErrors {
	errs := FieldErrors{}
	switch {
	case strings.TrimSpace(n.URL) == "":
		errs[FieldURL] = "URL is required"
	case ValidateLinkURL(strings.TrimSpace(n.URL)) != nil:
		errs[FieldURL] = "Please enter a valid URL"
	}
	if strings.TrimSpace(n.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}
	if strings.TrimSpace(n.Description) == "" {
		errs[FieldDescription] = "Description is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a new collection.
func (n NewCollection) Validate() FieldErrors {
	if strings.TrimSpace(n.Name) == "" {
		return FieldErrors{FieldName: "Name is required"}
	}
	return nil
}
