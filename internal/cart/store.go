package cart

import "sync"

// Store maps a session key to its cart. Carts live for the duration of the
// process, like the browser-session cart they replace.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the cart for the session, creating it on first use.
func (s *Store) Get(sessionKey string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionKey]
	if !ok {
		c = New()
		s.carts[sessionKey] = c
	}
	return c
}

// Drop discards the session's cart entirely, e.g. on logout.
func (s *Store) Drop(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionKey)
}
