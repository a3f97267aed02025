// Package auth drives the login and registration panels and updates the
// session on success.
package auth

import (
	"context"
	"sync"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

// Messages shown by the panels.
const (
	LoginFailureMessage    = "Something went wrong!"
	RegisterFailureMessage = "Something went wrong!"
	RegisterSuccessMessage = "Successful. You can login now!"
)

// Remote is the account part of the store contract.
type Remote interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)
	SetToken(token string)
}

// Session is the identity slot the flows write to.
type Session interface {
	Get() models.Identity
	Set(id models.Identity) error
	Clear() error
}

// LoginPanel is what the login form shows. Fields keep their last submitted
// values after a failure.
type LoginPanel struct {
	Open     bool
	Username string
	Password string
	Failed   bool
}

// RegisterPanel is what the registration form shows.
type RegisterPanel struct {
	Open      bool
	Username  string
	Email     string
	Password  string
	Failed    bool
	Succeeded bool
}

type Flows struct {
	remote  Remote
	session Session
	log     *logger.Logger

	mu       sync.Mutex
	login    LoginPanel
	register RegisterPanel
}

func NewFlows(remote Remote, session Session, log *logger.Logger) *Flows {
	return &Flows{remote: remote, session: session, log: log}
}

func (f *Flows) LoginPanel() LoginPanel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.login
}

func (f *Flows) RegisterPanel() RegisterPanel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.register
}

// OpenLogin shows the login panel and drops any earlier register success note.
func (f *Flows) OpenLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login.Open = true
	f.register.Succeeded = false
}

func (f *Flows) CloseLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login = LoginPanel{}
}

func (f *Flows) OpenRegister() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.register.Open = true
	f.register.Succeeded = false
}

// CloseRegister hides the panel and clears its failure flag. Typed fields
// and a success note are kept.
func (f *Flows) CloseRegister() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.register.Open = false
	f.register.Failed = false
}

// Login exchanges credentials for an identity. On success the identity is
// stored in the session and the panel closes; on failure the panel stays open
// with the failure flag set.
func (f *Flows) Login(ctx context.Context, username, password string) (models.Identity, error) {
	f.mu.Lock()
	f.login.Username = username
	f.login.Password = password
	f.mu.Unlock()

	resp, err := f.remote.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		f.log.Warn("login failed", "username", username, "error", err)
		f.mu.Lock()
		f.login.Failed = true
		f.mu.Unlock()
		return "", err
	}

	id := models.Identity(resp.Username)
	if err := f.session.Set(id); err != nil {
		// the in-memory session already holds id; only persistence failed
		f.log.Warn("login not persisted", "username", id, "error", err)
	}

	f.mu.Lock()
	f.login = LoginPanel{}
	f.mu.Unlock()

	f.log.Info("login succeeded", "username", id)
	return id, nil
}

// Register creates an account. It never logs the user in.
func (f *Flows) Register(ctx context.Context, username, email, password string) error {
	f.mu.Lock()
	f.register.Username = username
	f.register.Email = email
	f.register.Password = password
	f.mu.Unlock()

	_, err := f.remote.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: password})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.Warn("register failed", "username", username, "error", err)
		f.register.Failed = true
		f.register.Succeeded = false
		return err
	}
	f.log.Info("register succeeded", "username", username)
	f.register = RegisterPanel{Succeeded: true}
	return nil
}

// Logout forgets the identity and any bearer token.
func (f *Flows) Logout() error {
	f.remote.SetToken("")
	if err := f.session.Clear(); err != nil {
		f.log.Warn("logout not persisted", "error", err)
		return err
	}
	f.log.Info("logged out")
	return nil
}
