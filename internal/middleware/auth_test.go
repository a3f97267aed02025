package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/logger"
)

const testSecret = "test-secret"

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		username, _ := Username(c)
		c.String(http.StatusOK, username)
	})
	return r
}

func doRequest(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueAndParseUserToken(t *testing.T) {
	token, err := IssueUserToken("alice", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	username, err := ParseUserToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseUserToken: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}

	if _, err := ParseUserToken(token, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}

	expired, err := IssueUserToken("alice", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, err := ParseUserToken(expired, testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestOptionalUserAuth(t *testing.T) {
	r := newAuthRouter(OptionalUserAuth(testSecret, logger.Nop()))
	token, err := IssueUserToken("alice", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	w := doRequest(r, "")
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("anonymous: expected 200 with empty username, got %d %q", w.Code, w.Body.String())
	}

	w = doRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK || w.Body.String() != "alice" {
		t.Fatalf("valid token: expected 200 alice, got %d %q", w.Code, w.Body.String())
	}

	for _, header := range []string{"Bearer garbage", "Token " + token, "Bearer"} {
		if w := doRequest(r, header); w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestUserAuthRequiresToken(t *testing.T) {
	r := newAuthRouter(UserAuth(testSecret, logger.Nop()))

	if w := doRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, _ := IssueUserToken("bob", testSecret, time.Minute)
	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK || w.Body.String() != "bob" {
		t.Fatalf("expected 200 bob, got %d %q", w.Code, w.Body.String())
	}
}
