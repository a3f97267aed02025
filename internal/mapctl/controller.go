// Package mapctl owns the map's popup state machine: which pin's detail is
// open and the single in-progress draft.
package mapctl

import (
	"context"
	"errors"
	"sync"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

var (
	ErrNoDraft       = errors.New("no draft in progress")
	ErrUnknownPin    = errors.New("unknown pin")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Session supplies the identity stamped on new pins.
type Session interface {
	Get() models.Identity
}

// PinStore is the repository surface the controller uses.
type PinStore interface {
	Get(id string) (models.Pin, bool)
	Create(ctx context.Context, req models.CreatePinRequest) (models.Pin, error)
}

type Controller struct {
	session Session
	pins    PinStore
	log     *logger.Logger

	mu   sync.Mutex
	mode Mode
	// draftSeq is bumped for every new draft so a finished Submit only
	// closes the draft it sent.
	draftSeq uint64
}

func NewController(session Session, pins PinStore, log *logger.Logger) *Controller {
	return &Controller{session: session, pins: pins, log: log, mode: Idle{}}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// DoubleClick opens a fresh draft at the given coordinates. Whatever was open
// before, including another draft, is replaced.
func (c *Controller) DoubleClick(lat, lng float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.mode.(Drafting); ok {
		c.log.Debug("replacing draft", "lat", d.Draft.Lat, "lng", d.Draft.Lng)
	}
	c.draftSeq++
	c.mode = Drafting{Draft: Draft{Lat: lat, Lng: lng}}
}

// ClickMarker opens the detail popup for id. A pending draft is discarded.
func (c *Controller) ClickMarker(id string) error {
	if _, ok := c.pins.Get(id); !ok {
		return ErrUnknownPin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mode.(Drafting); ok {
		c.log.Debug("discarding draft for marker click", "pin", id)
	}
	c.mode = Viewing{PinID: id}
	return nil
}

// ClosePopup closes whichever popup is open.
func (c *Controller) ClosePopup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = Idle{}
}

func (c *Controller) SetTitle(title string) error {
	return c.editDraft(func(d *Draft) { d.Title = title })
}

func (c *Controller) SetDesc(desc string) error {
	return c.editDraft(func(d *Draft) { d.Desc = desc })
}

func (c *Controller) SetRating(rating int) error {
	if !validRating(rating) {
		return ErrInvalidRating
	}
	return c.editDraft(func(d *Draft) { d.Rating = rating })
}

func (c *Controller) editDraft(fn func(*Draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.mode.(Drafting)
	if !ok {
		return ErrNoDraft
	}
	fn(&d.Draft)
	c.mode = d
	return nil
}

// Submit sends the draft to the store. On success the draft closes and the new
// pin is already in the repository cache. On failure the draft stays open
// with its fields intact so it can be resubmitted.
//
// The current identity is sent as-is; an anonymous session submits a null
// username.
func (c *Controller) Submit(ctx context.Context) (models.Pin, error) {
	c.mu.Lock()
	d, ok := c.mode.(Drafting)
	seq := c.draftSeq
	c.mu.Unlock()
	if !ok {
		return models.Pin{}, ErrNoDraft
	}

	req := models.CreatePinRequest{
		Username: c.session.Get().Ptr(),
		Title:    d.Draft.Title,
		Desc:     d.Draft.Desc,
		Rating:   d.Draft.Rating,
		Lat:      d.Draft.Lat,
		Long:     d.Draft.Lng,
	}

	pin, err := c.pins.Create(ctx, req)
	if err != nil {
		c.log.Warn("draft kept open after failed submit", "error", err)
		return models.Pin{}, err
	}

	c.mu.Lock()
	if _, still := c.mode.(Drafting); still && c.draftSeq == seq {
		c.mode = Idle{}
	}
	c.mu.Unlock()
	return pin, nil
}
