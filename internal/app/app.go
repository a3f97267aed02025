// Package app wires the map client together: session, account flows, pin
// repository, popup controller and view.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/pinet/pinet/internal/auth"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/mapctl"
	"github.com/pinet/pinet/internal/pins"
	"github.com/pinet/pinet/internal/session"
	"github.com/pinet/pinet/internal/view"
)

// Remote is the full store contract.
type Remote interface {
	pins.Remote
	auth.Remote
}

type App struct {
	Session *session.Store
	Auth    *auth.Flows
	Pins    *pins.Repository
	Map     *mapctl.Controller

	log      *logger.Logger
	now      func() time.Time
	loadOnce sync.Once
}

func New(remote Remote, sess *session.Store, log *logger.Logger) *App {
	repo := pins.NewRepository(remote, log)
	return &App{
		Session: sess,
		Auth:    auth.NewFlows(remote, sess, log),
		Pins:    repo,
		Map:     mapctl.NewController(sess, repo, log),
		log:     log,
		now:     time.Now,
	}
}

// Bootstrap loads every pin once per App. A failed load leaves the map empty;
// the failure only reaches the operator log.
func (a *App) Bootstrap(ctx context.Context) {
	a.loadOnce.Do(func() {
		a.log.Info("bootstrapping", "identity", a.Session.Get())
		_, _ = a.Pins.LoadAll(ctx)
	})
}

// View composes the current render tree.
func (a *App) View() view.View {
	return view.Compose(view.State{
		Identity: a.Session.Get(),
		Pins:     a.Pins.Pins(),
		Mode:     a.Map.Mode(),
		Login:    a.Auth.LoginPanel(),
		Register: a.Auth.RegisterPanel(),
		Now:      a.now(),
	})
}
