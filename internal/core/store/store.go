// Package store is the application state container. It holds one slice per
// concern (content, links, collections, search, graph), runs the use-cases
// behind each action and turns failures into display messages.
//
// A Store is an ordinary value built with New and passed to whatever needs
// it; there is no package-level instance.
package store

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/usecase"
)

// Store is safe for concurrent use. Actions block until their use-cases
// return and report the original error alongside the stored message.
type Store struct {
	uc  *usecase.Container
	log logrus.FieldLogger

	mu            sync.Mutex
	content       ContentState
	contentTarget string
	contentSeq    uint64
	links         LinkState
	collections   CollectionState
	search        SearchState
	graph         GraphState

	listenerMu sync.RWMutex
	listeners  map[EventKind][]Listener
}

// New creates a store over the given use-cases. A nil logger discards output.
func New(uc *usecase.Container, log logrus.FieldLogger) *Store {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Store{
		uc:        uc,
		log:       log.WithField("component", "store"),
		links:     LinkState{Request: domain.DefaultPageRequest()},
		listeners: make(map[EventKind][]Listener),
	}
}
