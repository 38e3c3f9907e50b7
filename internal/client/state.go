package client

import (
	"slices"
	"sync"

	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
)

// Session is who is logged in on this client.
type Session struct {
	Email string
	Token string
}

// State is the whole client side snapshot. Values are replaced, never mutated in place.
type State struct {
	Session    *Session
	Products   *handlers.ProductsPage
	Categories []handlers.CategoryResponse
	Selection  []int
	Loading    bool
	Err        string
}

// Action describes one state transition. Only the types in this file implement it.
type Action interface {
	action()
}

type (
	LoggedIn struct {
		Email string
		Token string
	}
	LoggedOut         struct{}
	ProductsRequested struct{}
	ProductsLoaded    struct{ Page handlers.ProductsPage }
	CategoriesLoaded  struct {
		Categories []handlers.CategoryResponse
	}
	RequestFailed     struct{ Err error }
	SelectionToggled  struct{ ID int }
	SelectionCleared  struct{}
	ProductsDeleted   struct{ IDs []int }
)

func (LoggedIn) action()          {}
func (LoggedOut) action()         {}
func (ProductsRequested) action() {}
func (ProductsLoaded) action()    {}
func (CategoriesLoaded) action()  {}
func (RequestFailed) action()     {}
func (SelectionToggled) action()  {}
func (SelectionCleared) action()  {}
func (ProductsDeleted) action()   {}

// Reduce returns the state that follows s after a. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoggedIn:
		return State{Session: &Session{Email: a.Email, Token: a.Token}}
	case LoggedOut:
		return State{}
	case ProductsRequested:
		s.Loading = true
		s.Err = ""
	case ProductsLoaded:
		page := a.Page
		page.Data = slices.Clone(a.Page.Data)
		s.Products = &page
		s.Loading = false
		s.Err = ""
		s.Selection = keepVisible(s.Selection, page.Data)
	case CategoriesLoaded:
		s.Categories = slices.Clone(a.Categories)
	case RequestFailed:
		s.Loading = false
		if a.Err != nil {
			s.Err = a.Err.Error()
		}
	case SelectionToggled:
		if i := slices.Index(s.Selection, a.ID); i >= 0 {
			s.Selection = slices.Delete(slices.Clone(s.Selection), i, i+1)
		} else {
			s.Selection = append(slices.Clone(s.Selection), a.ID)
		}
	case SelectionCleared:
		s.Selection = nil
	case ProductsDeleted:
		// The page is refetched afterwards; the selection is dropped right away.
		s.Selection = nil
		if s.Products != nil {
			page := *s.Products
			page.Data = slices.DeleteFunc(slices.Clone(page.Data), func(p handlers.ProductResponse) bool {
				return slices.Contains(a.IDs, p.ID)
			})
			s.Products = &page
		}
	}
	return s
}

// keepVisible drops selected ids that are not on the loaded page.
func keepVisible(selection []int, products []handlers.ProductResponse) []int {
	if len(selection) == 0 {
		return nil
	}
	kept := make([]int, 0, len(selection))
	for _, id := range selection {
		if slices.ContainsFunc(products, func(p handlers.ProductResponse) bool { return p.ID == id }) {
			kept = append(kept, id)
		}
	}
	return kept
}

// Store holds the current State and notifies subscribers after every dispatch.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextSub     int
}

func NewStore() *Store {
	return &Store{subscribers: map[int]func(State){}}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and calls every subscriber with the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
