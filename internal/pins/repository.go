// Package pins holds the client's cached pin collection and keeps it in step
// with the remote store.
package pins

import (
	"context"
	"errors"
	"sync"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

// ErrUnpersisted is returned when the store answers a create without an id.
var ErrUnpersisted = errors.New("store returned a pin without an id")

// Remote is the part of the store contract the repository needs.
type Remote interface {
	ListPins(ctx context.Context) ([]models.Pin, error)
	CreatePin(ctx context.Context, req models.CreatePinRequest) (models.Pin, error)
}

// Repository owns the only mutable handle on the pin cache. The cache is
// insertion ordered and only grows through LoadAll and Create.
type Repository struct {
	remote Remote
	log    *logger.Logger

	mu    sync.RWMutex
	pins  []models.Pin
	index map[string]int
}

func NewRepository(remote Remote, log *logger.Logger) *Repository {
	return &Repository{remote: remote, log: log, index: map[string]int{}}
}

// LoadAll replaces the cache with every pin in the store. On failure the
// previous cache is kept and the error is logged for the operator.
func (r *Repository) LoadAll(ctx context.Context) ([]models.Pin, error) {
	fetched, err := r.remote.ListPins(ctx)
	if err != nil {
		r.log.Error("load pins failed", "error", err)
		return r.Pins(), err
	}

	pins := make([]models.Pin, 0, len(fetched))
	index := make(map[string]int, len(fetched))
	for _, p := range fetched {
		if p.ID == "" {
			r.log.Warn("skipping pin without id", "title", p.Title)
			continue
		}
		if _, dup := index[p.ID]; dup {
			r.log.Warn("skipping duplicate pin", "id", p.ID)
			continue
		}
		index[p.ID] = len(pins)
		pins = append(pins, p)
	}

	r.mu.Lock()
	r.pins = pins
	r.index = index
	r.mu.Unlock()

	r.log.Info("pins loaded", "count", len(pins))
	return r.Pins(), nil
}

// Create sends req to the store and appends the stored pin to the end of the
// cache. The cache is untouched when the write fails.
func (r *Repository) Create(ctx context.Context, req models.CreatePinRequest) (models.Pin, error) {
	pin, err := r.remote.CreatePin(ctx, req)
	if err != nil {
		r.log.Error("create pin failed", "error", err, "title", req.Title)
		return models.Pin{}, err
	}
	if pin.ID == "" {
		r.log.Error("create pin failed", "error", ErrUnpersisted, "title", req.Title)
		return models.Pin{}, ErrUnpersisted
	}

	r.mu.Lock()
	if _, dup := r.index[pin.ID]; dup {
		r.log.Warn("store echoed an already cached pin", "id", pin.ID)
	} else {
		r.index[pin.ID] = len(r.pins)
		r.pins = append(r.pins, pin)
	}
	r.mu.Unlock()

	r.log.Info("pin created", "id", pin.ID, "username", pin.Username)
	return pin, nil
}

// Pins returns a copy of the cache in insertion order.
func (r *Repository) Pins() []models.Pin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Pin, len(r.pins))
	copy(out, r.pins)
	return out
}

func (r *Repository) Get(id string) (models.Pin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return models.Pin{}, false
	}
	return r.pins[i], true
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pins)
}
