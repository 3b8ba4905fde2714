package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestRouter(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Middleware(l, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestMiddlewareAdmitsAndRejects(t *testing.T) {
	clk := newFakeClock()
	r := newTestRouter(NewLimiter(Policy{MaxRequests: 2, Window: time.Minute}, clk))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
		clk.Advance(time.Second)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var body struct {
		Error      string `json:"error"`
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" || body.Message == "" || body.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestMiddlewareKeysByForwardedAddress(t *testing.T) {
	clk := newFakeClock()
	r := newTestRouter(NewLimiter(Policy{MaxRequests: 1, Window: time.Minute}, clk))

	send := func(forwarded string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("203.0.113.7"); code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := send("203.0.113.7, 10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("same first hop should share the bucket, got %d", code)
	}
	if code := send("203.0.113.9"); code != http.StatusOK {
		t.Fatalf("different client: expected 200, got %d", code)
	}
}

func TestClientKeyFallsBackToPeer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.4:5123"

	if got := ClientKey(c); got != "192.0.2.4" {
		t.Fatalf("expected peer address, got %q", got)
	}
}
