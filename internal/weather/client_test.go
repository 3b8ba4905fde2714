package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/config"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		WeatherAPIKey:   "real-key",
		WeatherBaseURL:  baseURL,
		WeatherCacheTTL: time.Minute,
		UpstreamTimeout: 2 * time.Second,
	}
}

func TestLookupDemoMode(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.WeatherAPIKey = config.DemoWeatherKey
	c := NewClient(cfg, zap.NewNop())

	if !c.DemoMode() {
		t.Fatalf("expected demo mode with placeholder key")
	}
	obs, err := c.Lookup(context.Background(), "Madrid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.City != "Madrid" || obs.Note == "" {
		t.Fatalf("unexpected demo observation %+v", obs)
	}
}

func TestLookupLive(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") != "Madrid" {
			t.Errorf("unexpected city %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("appid") != "real-key" {
			t.Errorf("expected api key in query")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Madrid","main":{"temp":21.5,"humidity":40},"weather":[{"description":"cielo claro"}],"sys":{"country":"ES"}}`))
	}))
	defer upstream.Close()

	c := NewClient(testConfig(upstream.URL), zap.NewNop())

	obs, err := c.Lookup(context.Background(), "Madrid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.City != "Madrid" || obs.Temperature != "21.5°C" || obs.Humidity != "40%" || obs.Country != "ES" {
		t.Fatalf("unexpected observation %+v", obs)
	}

	// Second lookup is served from cache.
	if _, err := c.Lookup(context.Background(), "Madrid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestLookupCityNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	c := NewClient(testConfig(upstream.URL), zap.NewNop())

	_, err := c.Lookup(context.Background(), "Atlantis")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestLookupUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	c := NewClient(testConfig(upstream.URL), zap.NewNop())

	_, err := c.Lookup(context.Background(), "Madrid")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestLookupUnreachableUpstream(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.UpstreamTimeout = 200 * time.Millisecond
	c := NewClient(cfg, zap.NewNop())

	_, err := c.Lookup(context.Background(), "Madrid")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestPingDemoMode(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.WeatherAPIKey = ""
	c := NewClient(cfg, zap.NewNop())

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("demo mode ping should succeed, got %v", err)
	}
}
