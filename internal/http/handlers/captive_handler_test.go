package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lanbox-dev/piratebox/internal/captive"
)

func newCaptiveRouter() *gin.Engine {
	r := gin.New()
	h := NewCaptiveHandlers("BoxUnderTest")
	r.GET("/captive", h.Splash)
	r.GET("/captive/ack", h.Ack)
	r.NoRoute(h.Fallback)
	return r
}

func TestSplash_ContainsAppName(t *testing.T) {
	r := newCaptiveRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/captive", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "BoxUnderTest") {
		t.Error("app name missing from splash")
	}
}

func TestAck_SetsCookieAndRedirects(t *testing.T) {
	r := newCaptiveRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/captive/ack?next=/forum", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/forum" {
		t.Errorf("Location = %q, want /forum", loc)
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == captive.AckCookieName && c.Value == captive.AckCookieValue {
			found = true
			if !c.HttpOnly {
				t.Error("ack cookie should be HttpOnly")
			}
			if c.Path != "/" {
				t.Errorf("cookie path = %q, want /", c.Path)
			}
		}
	}
	if !found {
		t.Fatal("ack cookie not set")
	}
}

func TestFallback_ProbeWithoutAck(t *testing.T) {
	r := newCaptiveRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/connecttest.txt", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != captive.PortalPath {
		t.Errorf("Location = %q, want %q", loc, captive.PortalPath)
	}
}

func TestFallback_ProbeWithAck(t *testing.T) {
	r := newCaptiveRouter()
	req := httptest.NewRequest(http.MethodGet, "/connecttest.txt", nil)
	req.AddCookie(&http.Cookie{Name: captive.AckCookieName, Value: captive.AckCookieValue})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "Microsoft Connect Test" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestFallback_NonProbeIs404(t *testing.T) {
	r := newCaptiveRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/definitely/not/a/route", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w.Body.String() != "Not found" {
		t.Errorf("body = %q, want %q", w.Body.String(), "Not found")
	}
}
