package store

// Event is the common interface for store change events.
//
// Listeners receive a copy of the slice state after the change:
//
//	s.Subscribe(store.OnContentChanged, func(e store.Event) error {
//	    ev := e.(store.ContentChangedEvent)
//	    render(ev.State)
//	    return nil
//	})
type Event interface {
	Kind() EventKind
}

// EventKind identifies the slice an event belongs to.
type EventKind int

const (
	// OnContentChanged is emitted whenever the content slice changes.
	OnContentChanged EventKind = iota
	// OnLinksChanged is emitted whenever the link slice changes.
	OnLinksChanged
	// OnCollectionsChanged is emitted whenever the collection slice changes.
	OnCollectionsChanged
	// OnSearchChanged is emitted whenever the search slice changes.
	OnSearchChanged
	// OnGraphChanged is emitted whenever the graph slice changes.
	OnGraphChanged
)

func (k EventKind) String() string {
	switch k {
	case OnContentChanged:
		return "content_changed"
	case OnLinksChanged:
		return "links_changed"
	case OnCollectionsChanged:
		return "collections_changed"
	case OnSearchChanged:
		return "search_changed"
	case OnGraphChanged:
		return "graph_changed"
	default:
		return "unknown"
	}
}

type ContentChangedEvent struct{ State ContentState }

func (e ContentChangedEvent) Kind() EventKind { return OnContentChanged }

type LinksChangedEvent struct{ State LinkState }

func (e LinksChangedEvent) Kind() EventKind { return OnLinksChanged }

type CollectionsChangedEvent struct{ State CollectionState }

func (e CollectionsChangedEvent) Kind() EventKind { return OnCollectionsChanged }

type SearchChangedEvent struct{ State SearchState }

func (e SearchChangedEvent) Kind() EventKind { return OnSearchChanged }

type GraphChangedEvent struct{ State GraphState }

func (e GraphChangedEvent) Kind() EventKind { return OnGraphChanged }

// Listener handles events of one kind. A returned error is logged.
type Listener func(event Event) error

// Subscribe adds a listener for kind. Listeners are called synchronously in
// registration order, outside the store lock.
func (s *Store) Subscribe(kind EventKind, listener Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners[kind] = append(s.listeners[kind], listener)
}

func (s *Store) emit(event Event) {
	s.listenerMu.RLock()
	listeners := append([]Listener(nil), s.listeners[event.Kind()]...)
	s.listenerMu.RUnlock()

	for _, listener := range listeners {
		if err := listener(event); err != nil {
			s.log.WithError(err).WithField("event", event.Kind().String()).Warn("event listener failed")
		}
	}
}
