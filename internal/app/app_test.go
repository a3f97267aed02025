package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/client"
	"github.com/pinet/pinet/internal/database"
	"github.com/pinet/pinet/internal/handlers"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/mapctl"
	"github.com/pinet/pinet/internal/session"
	"github.com/pinet/pinet/internal/view"
)

// recorder keeps the bodies of POST /pins requests.
type recorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodPost && req.URL.Path == "/pins" {
			body, _ := io.ReadAll(req.Body)
			r.mu.Lock()
			r.bodies = append(r.bodies, string(body))
			r.mu.Unlock()
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		next.ServeHTTP(w, req)
	})
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return ""
	}
	return r.bodies[len(r.bodies)-1]
}

func newTestServer(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := database.OpenSQL("sqlite", ":memory:", logger.Nop())
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	rec := &recorder{}
	router := handlers.NewRouter(store, logger.Nop(), handlers.RouterOptions{JWTSecret: "secret", AccessTokenTTL: time.Hour})
	srv := httptest.NewServer(rec.wrap(router))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestApp(t *testing.T, srv *httptest.Server, sessionPath string) (*App, func() error) {
	t.Helper()
	sess, closeSession := session.Open(sessionPath, logger.Nop())
	a := New(client.New(srv.URL, srv.Client()), sess, logger.Nop())
	a.Bootstrap(context.Background())
	return a, closeSession
}

func TestAnonymousSubmitSendsNullUsername(t *testing.T) {
	srv, rec := newTestServer(t)
	a, closeSession := newTestApp(t, srv, filepath.Join(t.TempDir(), "session.json"))
	defer closeSession()

	a.Map.DoubleClick(19.80, 85.82)
	if err := a.Map.SetTitle("Cafe"); err != nil {
		t.Fatal(err)
	}
	if err := a.Map.SetDesc("Nice"); err != nil {
		t.Fatal(err)
	}
	if err := a.Map.SetRating(4); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Map.Submit(context.Background()); err == nil {
		t.Fatal("expected the store to reject an anonymous pin")
	}

	want := `{"username":null,"title":"Cafe","desc":"Nice","rating":4,"lat":19.8,"long":85.82}`
	if got := rec.last(); got != want {
		t.Fatalf("payload mismatch:\n got %s\nwant %s", got, want)
	}

	d, ok := a.Map.Mode().(mapctl.Drafting)
	if !ok {
		t.Fatalf("expected draft to stay open, got %#v", a.Map.Mode())
	}
	if d.Draft.Title != "Cafe" || d.Draft.Desc != "Nice" || d.Draft.Rating != 4 {
		t.Fatalf("draft not preserved: %#v", d.Draft)
	}
	if a.Pins.Len() != 0 {
		t.Fatalf("expected no pins, got %d", a.Pins.Len())
	}
}

func TestRegisterLoginSubmitLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	a, closeSession := newTestApp(t, srv, sessionPath)
	ctx := context.Background()

	a.Auth.OpenRegister()
	if err := a.Auth.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !a.Auth.RegisterPanel().Succeeded {
		t.Fatal("expected register success")
	}
	if !a.Session.Get().Anonymous() {
		t.Fatal("register must not log in")
	}

	a.Auth.OpenLogin()
	if _, err := a.Auth.Login(ctx, "alice", "wrong-password"); err == nil {
		t.Fatal("expected login failure")
	}
	if p := a.Auth.LoginPanel(); !p.Open || !p.Failed {
		t.Fatalf("expected open failed panel, got %#v", p)
	}

	if _, err := a.Auth.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if a.Session.Get() != "alice" {
		t.Fatalf("expected alice, got %q", a.Session.Get())
	}

	a.Map.DoubleClick(19.80, 85.82)
	_ = a.Map.SetTitle("Cafe")
	_ = a.Map.SetDesc("Nice")
	_ = a.Map.SetRating(4)
	pin, err := a.Map.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, ok := a.Map.Mode().(mapctl.Idle); !ok {
		t.Fatalf("expected idle after submit, got %#v", a.Map.Mode())
	}

	v := a.View()
	if len(v.Markers) != 1 || v.Markers[0].PinID != pin.ID || v.Markers[0].Style != view.StyleOwn {
		t.Fatalf("unexpected markers: %#v", v.Markers)
	}
	if !v.Toolbar.AddPin || !v.Toolbar.Logout || v.Toolbar.Login {
		t.Fatalf("unexpected toolbar: %#v", v.Toolbar)
	}

	// identity survives a restart; the pin reloads from the store
	if err := closeSession(); err != nil {
		t.Fatal(err)
	}
	b, closeSession := newTestApp(t, srv, sessionPath)
	defer closeSession()
	if b.Session.Get() != "alice" {
		t.Fatalf("expected restored identity, got %q", b.Session.Get())
	}
	if b.Pins.Len() != 1 {
		t.Fatalf("expected 1 pin after reload, got %d", b.Pins.Len())
	}

	if err := b.Auth.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	v = b.View()
	if !v.Identity.Anonymous() || !v.Toolbar.Login || !v.Toolbar.Register || v.Toolbar.AddPin {
		t.Fatalf("unexpected view after logout: %#v", v.Toolbar)
	}
	if v.Markers[0].Style != view.StyleOther {
		t.Fatalf("expected other style after logout, got %s", v.Markers[0].Style)
	}
}

func TestBootstrapRunsOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"p1","username":"bob","title":"Beach","desc":"Windy","rating":2,"lat":1,"long":2,"createdAt":"2024-01-01T00:00:00Z"}]`))
	}))
	defer srv.Close()

	a := New(client.New(srv.URL, srv.Client()), session.New(nil, logger.Nop()), logger.Nop())
	a.Bootstrap(context.Background())
	a.Bootstrap(context.Background())

	if calls != 1 {
		t.Fatalf("expected one load, got %d", calls)
	}
	if a.Pins.Len() != 1 {
		t.Fatalf("expected 1 pin, got %d", a.Pins.Len())
	}
}

func TestBootstrapFailureLeavesMapEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"db error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New(client.New(srv.URL, srv.Client()), session.New(nil, logger.Nop()), logger.Nop())
	a.Bootstrap(context.Background())

	if v := a.View(); len(v.Markers) != 0 || v.Popup != nil {
		t.Fatalf("expected empty map, got %#v", v)
	}
}
