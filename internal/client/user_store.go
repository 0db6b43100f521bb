package client

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"eventboard/internal/domain"
)

// UserAPI is the part of Client the user store needs.
type UserAPI interface {
	Register(ctx context.Context, username, password, name string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	GetAuth(ctx context.Context) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// UserStore caches the logged-in user and the display names of everyone else.
type UserStore struct {
	api UserAPI

	mu        sync.RWMutex
	user      *domain.User
	names     map[string]string
	listeners listeners[*domain.User]
}

func NewUserStore(api UserAPI) *UserStore {
	return &UserStore{api: api, names: map[string]string{}}
}

// Load restores the session from the cookie. A 401 leaves the store logged out
// and is not an error.
func (s *UserStore) Load(ctx context.Context) error {
	user, err := s.api.GetAuth(ctx)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			s.set(nil, nil)
			return nil
		}
		return err
	}
	return s.populate(ctx, user)
}

func (s *UserStore) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return user, s.populate(ctx, user)
}

func (s *UserStore) Register(ctx context.Context, username, password, name string) (*domain.User, error) {
	user, err := s.api.Register(ctx, username, password, name)
	if err != nil {
		return nil, err
	}
	return user, s.populate(ctx, user)
}

// Logout clears the server cookie and the cache. The cache is cleared even
// when the request fails.
func (s *UserStore) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.set(nil, nil)
	return err
}

// Reset drops the cached state without a network call.
func (s *UserStore) Reset() {
	s.set(nil, nil)
}

// Current returns the cached user, or nil when logged out.
func (s *UserStore) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Names returns the display names of the other users, sorted.
func (s *UserStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers fn to be called with the current user after every change.
func (s *UserStore) Subscribe(fn func(*domain.User)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners.add(&s.mu, fn)
}

func (s *UserStore) populate(ctx context.Context, user *domain.User) error {
	others, err := s.api.ListUsers(ctx)
	if err != nil {
		s.set(user, nil)
		return err
	}
	names := make(map[string]string, len(others))
	for _, u := range others {
		names[u.ID] = u.Name
	}
	s.set(user, names)
	return nil
}

func (s *UserStore) set(user *domain.User, names map[string]string) {
	if names == nil {
		names = map[string]string{}
	}
	s.mu.Lock()
	s.user = user
	s.names = names
	fns := s.listeners.snapshot()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

// listeners is a set of subscriber callbacks guarded by the owning store's mutex.
type listeners[T any] struct {
	next int
	fns  map[int]func(T)
}

// add must be called with mu held; the returned func takes mu itself.
func (l *listeners[T]) add(mu *sync.RWMutex, fn func(T)) func() {
	if l.fns == nil {
		l.fns = map[int]func(T){}
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		mu.Lock()
		delete(l.fns, id)
		mu.Unlock()
	}
}

// snapshot must be called with the owning mutex held.
func (l *listeners[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, l.fns[id])
	}
	return out
}
