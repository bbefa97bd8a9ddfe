package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/domain"
)

func TestAddLinkFormRequiresAllFields(t *testing.T) {
	f := newFixture(t)
	form := NewAddLinkForm(f.store, nil, WithFormClock(f.clock))

	// No expectations are set on the mocks: any API call fails the test.
	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.FieldErrors{
		domain.FieldURL:         "URL is required",
		domain.FieldTitle:       "Title is required",
		domain.FieldDescription: "Description is required",
	}, form.Errors)
}

func TestAddLinkFormRejectsInvalidURL(t *testing.T) {
	f := newFixture(t)
	form := NewAddLinkForm(f.store, nil, WithFormClock(f.clock))
	form.URL = "invalid-url"
	form.Title = "Title"
	form.Description = "Description"

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.FieldErrors{domain.FieldURL: "Please enter a valid URL"}, form.Errors)
}

func TestAddLinkFormConflictKeepsFields(t *testing.T) {
	f := newFixture(t)
	navigated := false
	form := NewAddLinkForm(f.store, func() { navigated = true }, WithFormClock(f.clock))
	form.URL = "https://go.dev"
	form.Title = "Go"
	form.Description = "The Go site"

	f.links.EXPECT().Create(gomock.Any(), domain.NewLink{URL: "https://go.dev", Title: "Go", Description: "The Go site"}).
		Return(domain.Link{}, &api.HTTPError{StatusCode: 409})

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "This URL already exists", form.Message)
	assert.Equal(t, "https://go.dev", form.URL)
	assert.False(t, form.Success)

	f.clock.Advance(time.Minute)
	assert.False(t, navigated)
}

func TestAddLinkFormSuccessResetsAndNavigates(t *testing.T) {
	f := newFixture(t)
	navigated := make(chan struct{})
	form := NewAddLinkForm(f.store, func() { close(navigated) }, WithFormClock(f.clock))
	form.URL = " https://go.dev "
	form.Title = "Go"
	form.Description = "The Go site"

	f.links.EXPECT().Create(gomock.Any(), domain.NewLink{URL: "https://go.dev", Title: "Go", Description: "The Go site"}).
		Return(domain.Link{ID: "l1", URL: "https://go.dev"}, nil)

	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "l1", created.ID)
	assert.True(t, form.Success)
	assert.Empty(t, form.URL)
	assert.Empty(t, form.Title)
	assert.Empty(t, form.Description)

	select {
	case <-navigated:
		t.Fatal("navigated before the delay")
	default:
	}

	require.NoError(t, f.clock.WaitAdvance(DefaultNavigateDelay, time.Second, 1))
	select {
	case <-navigated:
	case <-time.After(5 * time.Second):
		t.Fatal("expected navigation after the delay")
	}
}

func TestAddLinkFormCloseCancelsNavigation(t *testing.T) {
	f := newFixture(t)
	navigated := make(chan struct{}, 1)
	form := NewAddLinkForm(f.store, func() { navigated <- struct{}{} }, WithFormClock(f.clock))
	form.URL = "https://go.dev"
	form.Title = "Go"
	form.Description = "Go"

	f.links.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Link{ID: "l1"}, nil)
	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.Close()
	f.clock.Advance(time.Minute)

	select {
	case <-navigated:
		t.Fatal("navigation should have been cancelled")
	case <-time.After(50 * time.Millisecond):
	}
}
