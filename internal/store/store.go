// Package store keeps the single content value a reader displays.
//
// State only changes through Reduce; the Store serializes dispatch and
// notifies subscribers after each committed change.
package store

import (
	"sync"

	"github.com/gravitrone/gerby-reader/internal/content"
)

// State is the reader's whole state. It is a value; replace it, don't edit it.
type State struct {
	Path    string
	Content content.Content
	// Rev counts committed loads; it changes exactly when Content is replaced.
	Rev uint64
}

// Initial is the state before the first fetch.
func Initial() State {
	return State{Content: content.Empty{}}
}

// --- Actions ---

// Action is anything Reduce understands.
type Action interface {
	isAction()
}

// Navigate points the state at a new path. Content is kept until the fetch
// for the new path lands.
type Navigate struct {
	Path string
}

// Loaded delivers the content fetched for Path.
type Loaded struct {
	Path    string
	Content content.Content
}

// Failed reports a fetch error for Path.
type Failed struct {
	Path string
	Err  error
}

func (Navigate) isAction() {}
func (Loaded) isAction()   {}
func (Failed) isAction()   {}

// Reduce returns the state after applying a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Navigate:
		s.Path = a.Path
		return s
	case Loaded:
		if a.Path != s.Path {
			return s
		}
		if content.IsEmpty(a.Content) && !content.IsEmpty(s.Content) {
			return s
		}
		if a.Content == nil {
			a.Content = content.Empty{}
		}
		return State{Path: s.Path, Content: a.Content, Rev: s.Rev + 1}
	case Failed:
		return s
	}
	return s
}

// Listener is called with the states before and after a committed change.
type Listener func(prev, next State)

// Store holds the current State.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New returns a store starting at initial.
func New(initial State) *Store {
	if initial.Content == nil {
		initial.Content = content.Empty{}
	}
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch applies a and returns the resulting state. Listeners run after the
// commit, outside the lock, only when the state actually changed.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	changed := !sameState(prev, next)
	s.state = next
	var notify []Listener
	if changed {
		notify = make([]Listener, 0, len(s.listeners))
		for id := 0; id < s.nextID; id++ {
			if l, ok := s.listeners[id]; ok {
				notify = append(notify, l)
			}
		}
	}
	s.mu.Unlock()

	for _, l := range notify {
		l(prev, next)
	}
	return next
}

// Committed reports whether next replaced the content of prev.
func Committed(prev, next State) bool {
	return prev.Rev != next.Rev
}

func sameState(a, b State) bool {
	return a.Path == b.Path && a.Rev == b.Rev
}
