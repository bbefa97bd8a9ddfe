package domain

import (
	"errors"
	"testing"
)

func TestValidateLinkURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https URL", url: "https://example.com/page", wantErr: false},
		{name: "http URL", url: "http://example.com", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "invalid-url", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com", wantErr: true},
		{name: "missing host", url: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLinkURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestNewLinkValidate(t *testing.T) {
	t.Run("empty form yields three messages", func(t *testing.T) {
		errs := NewLink{}.Validate()
		if len(errs) != 3 {
			t.Fatalf("expected 3 field errors, got %d: %v", len(errs), errs)
		}
		want := map[string]string{
			FieldURL:         "URL is required",
			FieldTitle:       "Title is required",
			FieldDescription: "Description is required",
		}
		for field, msg := range want {
			if errs[field] != msg {
				t.Errorf("field %s: got %q, want %q", field, errs[field], msg)
			}
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		errs := NewLink{URL: "invalid-url", Title: "t", Description: "d"}.Validate()
		if errs[FieldURL] != "Please enter a valid URL" {
			t.Errorf("got %q", errs[FieldURL])
		}
		if len(errs) != 1 {
			t.Errorf("expected only the url error, got %v", errs)
		}
	})

	t.Run("valid form", func(t *testing.T) {
		errs := NewLink{URL: "https://example.com", Title: "t", Description: "d"}.Validate()
		if errs != nil {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("error string is ordered", func(t *testing.T) {
		got := NewLink{}.Validate().Error()
		want := "URL is required; Title is required; Description is required"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestPageValid(t *testing.T) {
	tests := []struct {
		name    string
		page    Page[Link]
		wantErr bool
	}{
		{name: "empty listing", page: Page[Link]{Size: 20}},
		{name: "full page", page: Page[Link]{Content: make([]Link, 2), Size: 2, TotalElements: 5, TotalPages: 3, Number: 2}},
		{name: "too many items", page: Page[Link]{Content: make([]Link, 3), Size: 2, TotalElements: 3, TotalPages: 2}, wantErr: true},
		{name: "number out of range", page: Page[Link]{Content: make([]Link, 1), Size: 2, TotalElements: 1, TotalPages: 1, Number: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Valid()
			if (err != nil) != tt.wantErr {
				t.Errorf("Valid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDownloadStatus(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Error("COMPLETED and FAILED should be terminal")
	}
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Error("PENDING and IN_PROGRESS should not be terminal")
	}
	if DownloadStatus("ARCHIVED").Known() {
		t.Error("unexpected status should not be known")
	}
}

func TestNormalizeSortDirection(t *testing.T) {
	if got := NormalizeSortDirection("asc"); got != SortAsc {
		t.Errorf("got %q", got)
	}
	if got := NormalizeSortDirection("sideways"); got != SortDesc {
		t.Errorf("got %q", got)
	}
}
