package session

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckatie/linklift/internal/core/domain"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSession() domain.Session {
	return domain.Session{
		User: domain.User{
			UserID:    "u-1",
			Username:  "ada",
			Email:     "ada@example.com",
			FirstName: "Ada",
		},
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		SavedAt:      "2025-10-16T12:00:00Z",
		APIURL:       "http://localhost:7070/api/v1",
	}
}

// backends returns one fresh store per backend.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := Open("sqlite://:memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, sq.Close()) })

	bg, err := Open("badger://"+t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, bg.Close()) })

	return map[string]Store{"sqlite": sq, "badger": bg}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Load(ctx)
			assert.ErrorIs(t, err, ErrNoSession)

			want := testSession()
			require.NoError(t, st.Save(ctx, want))

			got, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Saving again replaces the single stored row.
			want.AccessToken = "access-2"
			want.User.LastName = "Lovelace"
			require.NoError(t, st.Save(ctx, want))
			got, err = st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, st.Clear(ctx))
			_, err = st.Load(ctx)
			assert.ErrorIs(t, err, ErrNoSession)

			// Clearing an empty store is fine.
			assert.NoError(t, st.Clear(ctx))
		})
	}
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := testSession()
			s.AccessToken = ""
			assert.Error(t, st.Save(ctx, s))
		})
	}
}

func TestStoreEvents(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var kinds []EventKind
			var saved domain.Session
			st.RegisterEventListener(OnSessionSaved, func(e Event) error {
				kinds = append(kinds, e.Kind())
				saved = e.(SessionSavedEvent).Session
				return nil
			})
			st.RegisterEventListener(OnSessionCleared, func(e Event) error {
				kinds = append(kinds, e.Kind())
				return errors.New("listener failure is only logged")
			})

			require.NoError(t, st.Save(ctx, testSession()))
			require.NoError(t, st.Clear(ctx))

			assert.Equal(t, []EventKind{OnSessionSaved, OnSessionCleared}, kinds)
			assert.Equal(t, "ada", saved.User.Username)
		})
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind     EventKind
		expected string
	}{
		{OnSessionSaved, "session_saved"},
		{OnSessionCleared, "session_cleared"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"sqlite memory", "sqlite://:memory:", false},
		{"sqlite file", "sqlite://" + filepath.Join(t.TempDir(), "s.db"), false},
		{"badger", "badger://" + t.TempDir(), false},
		{"no scheme", "linklift.db", true},
		{"no path", "sqlite://", true},
		{"unknown scheme", "redis://localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Open(tt.uri, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, st.Close())
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	st, err := NewSQLiteStore(":memory:", testLogger())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Migrate())
	require.NoError(t, st.Migrate())

	var count int
	require.NoError(t, st.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	uri := "sqlite://" + filepath.Join(t.TempDir(), "session.db")

	st, err := Open(uri, testLogger())
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, testSession()))
	require.NoError(t, st.Close())

	st, err = Open(uri, testLogger())
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSession(), got)
}

func TestPersist(t *testing.T) {
	ctx := context.Background()
	st, err := Open("sqlite://:memory:", testLogger())
	require.NoError(t, err)
	defer st.Close()

	persist := Persist(ctx, st, testLogger())

	persist(testSession())
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken)

	unstamped := testSession()
	unstamped.SavedAt = ""
	persist(unstamped)
	got, err = st.Load(ctx)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, got.SavedAt)
	assert.NoError(t, err, "SavedAt should be stamped")

	persist(domain.Session{})
	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAccessTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	sign := func(claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	t.Run("with exp", func(t *testing.T) {
		got, err := AccessTokenExpiry(sign(jwt.MapClaims{"sub": "ada", "exp": exp.Unix()}))
		require.NoError(t, err)
		assert.True(t, exp.Equal(got))
	})

	t.Run("expired token still parses", func(t *testing.T) {
		past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := AccessTokenExpiry(sign(jwt.MapClaims{"exp": past.Unix()}))
		require.NoError(t, err)
		assert.True(t, past.Equal(got))
	})

	t.Run("without exp", func(t *testing.T) {
		_, err := AccessTokenExpiry(sign(jwt.MapClaims{"sub": "ada"}))
		assert.ErrorIs(t, err, ErrNoExpiry)
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := AccessTokenExpiry("access-1")
		assert.Error(t, err)
	})
}
