package lobby

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitwall/server/internal/config"
	"pitwall/server/internal/world"
)

func testServer() *Server {
	cfg := &config.Config{
		Server: config.Server{Name: "test", Address: "127.0.0.1", TCPPort: 9600, UDPPort: 9600, HTTPPort: 8081},
		Track:  "monza",
		Cars:   []string{"ks_ferrari_sf70h", "ks_ferrari_sf70h"},
	}
	slots := world.NewSlotTable(cfg.Cars, nil)
	registry := world.NewRegistry()
	sessions := world.NewSessionLedger(nil)
	weather := world.NewWeather(nil, 1)
	return New(cfg, slots, registry, sessions, weather)
}

func TestInfoReportsClientCountAndCars(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/INFO", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected non-empty body")
	}
	var info infoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if info.Clients != 0 || len(info.Cars) != 2 {
		t.Errorf("expected 0 clients and 2 cars, got clients=%d cars=%v", info.Clients, info.Cars)
	}
}

func TestJSONReportsPerSlotEntries(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/JSON", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var slots []jsonSlot
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(slots) != 2 || slots[0].Model != "ks_ferrari_sf70h" {
		t.Errorf("expected 2 ks_ferrari_sf70h slots, got %+v", slots)
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# HELP") {
		t.Errorf("expected Prometheus text exposition, got %q", rec.Body.String())
	}
}
