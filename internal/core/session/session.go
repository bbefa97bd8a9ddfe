// Package session persists the signed-in user's tokens between runs.
//
// Two backends are available, selected by URI scheme:
//
//	sqlite://linklift.db     (default)
//	badger:///var/lib/linklift
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

// ErrNoSession is returned by Load when nothing is stored.
var ErrNoSession = errors.New("no stored session")

// ErrNoExpiry is returned when an access token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// Store persists one session.
type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
	RegisterEventListener(kind EventKind, listener EventListener)
	Close() error
}

// Open opens the store named by uri.
func Open(uri string, log logrus.FieldLogger) (Store, error) {
	scheme, path, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("invalid session store URI %q: missing scheme", uri)
	}
	if path == "" {
		return nil, fmt.Errorf("invalid session store URI %q: missing path", uri)
	}

	switch scheme {
	case "sqlite":
		log.WithField("path", path).Debug("using sqlite session store")
		st, err := NewSQLiteStore(path, log)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	case "badger":
		log.WithField("path", path).Debug("using badger session store")
		return NewBadgerStore(path, log)
	default:
		return nil, fmt.Errorf("unsupported session store URI scheme: %q", scheme)
	}
}

// Persist returns a session listener that saves every new session to st and
// clears st when the session is emptied. Sessions without SavedAt are stamped
// with the current time.
func Persist(ctx context.Context, st Store, log logrus.FieldLogger) func(domain.Session) {
	return func(s domain.Session) {
		var err error
		if s.AccessToken == "" {
			err = st.Clear(ctx)
		} else {
			if s.SavedAt == "" {
				s.SavedAt = time.Now().UTC().Format(time.RFC3339)
			}
			err = st.Save(ctx, s)
		}
		if err != nil {
			log.WithError(err).Error("failed to persist session")
		}
	}
}

// AccessTokenExpiry reads the exp claim of a JWT access token. The signature
// is not verified; the result is for display only.
func AccessTokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}
