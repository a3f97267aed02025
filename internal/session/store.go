// Package session keeps the logged-in identity in a durable key-value slot so
// it survives client restarts.
package session

import (
	"errors"
	"sync"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

// UserKey is the slot the identity is stored under.
const UserKey = "user"

// KV is the durable storage behind a Store.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// Store exposes the current identity. The value is read once when the Store is
// created and afterwards only changes through Set and Clear.
type Store struct {
	mu      sync.RWMutex
	kv      KV
	log     *logger.Logger
	current models.Identity
}

// New seeds a Store from kv. A nil kv or an unreadable slot yields an
// anonymous session.
func New(kv KV, log *logger.Logger) *Store {
	s := &Store{kv: kv, log: log}
	if kv == nil {
		return s
	}
	v, err := kv.Get(UserKey)
	switch {
	case err == nil:
		s.current = models.Identity(v)
	case errors.Is(err, ErrNotFound):
	default:
		log.Warn("session read failed, continuing anonymously", "error", err)
	}
	return s
}

// Open opens the session file at path. Unreadable contents yield an anonymous
// Store whose next write rewrites the file. When the file cannot be opened at
// all the returned Store is anonymous and purely in-memory.
func Open(path string, log *logger.Logger) (*Store, func() error) {
	kv, err := OpenFileKV(path)
	if err != nil {
		log.Warn("session storage unavailable", "path", path, "error", err)
		return New(nil, log), func() error { return nil }
	}
	if err := kv.Discarded(); err != nil {
		log.Warn("session file unreadable, starting anonymous", "path", path, "error", err)
	}
	return New(kv, log), kv.Close
}

func (s *Store) Get() models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists id and makes it current. The in-memory value changes even when
// persisting fails.
func (s *Store) Set(id models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Put(UserKey, string(id)); err != nil {
		s.log.Error("session write failed", "error", err)
		return err
	}
	return nil
}

// Clear removes the persisted identity and reverts to anonymous.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(UserKey); err != nil {
		s.log.Error("session clear failed", "error", err)
		return err
	}
	return nil
}
