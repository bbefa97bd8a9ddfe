package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

var sessionKey = []byte("session:current")

// BadgerStore keeps the session as one JSON value in BadgerDB.
type BadgerStore struct {
	emitter
	db *badger.DB
}

// NewBadgerStore opens (or creates) the database in dir.
func NewBadgerStore(dir string, log logrus.FieldLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: log.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dir, err)
	}
	return &BadgerStore{
		emitter: emitter{log: log.WithField("component", "session")},
		db:      db,
	}, nil
}

// Load returns the stored session or ErrNoSession.
func (s *BadgerStore) Load(ctx context.Context) (domain.Session, error) {
	var sess domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// Save replaces the stored session. Emits a SessionSavedEvent.
func (s *BadgerStore) Save(ctx context.Context, sess domain.Session) error {
	if sess.AccessToken == "" {
		return errors.New("refusing to save a session without access token")
	}
	val, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey, val))
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.emit(SessionSavedEvent{Session: sess})
	return nil
}

// Clear removes the stored session. Emits a SessionClearedEvent.
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey)
	}); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.emit(SessionClearedEvent{})
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts logrus to Badger's logger interface. Badger is chatty
// at info level, so info is demoted to debug.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
