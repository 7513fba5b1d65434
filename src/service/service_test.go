package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/node"
)

func newTestService(t *testing.T) *Service {
	n := node.NewNode(node.TestConfig(t), net.NewInmemTransport("n1"))
	return NewService("127.0.0.1:0", n, common.NewTestEntry(t))
}

func TestGetStats(t *testing.T) {
	s := newTestService(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status should be 200, not %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("CORS header missing")
	}

	var stats map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}

	if stats["id"] != node.UnknownNode {
		t.Fatalf("id should be %s before init, not %s", node.UnknownNode, stats["id"])
	}
	if stats["state"] != "Running" || stats["pending_obligations"] != "0" {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestGetMetrics(t *testing.T) {
	s := newTestService(t)

	// one request to /stats so the HTTP counters have a series
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/stats", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status should be 200, not %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `murmur_http_requests_total{op="stats",status="2xx"}`) {
		t.Fatalf("/metrics should count /stats requests:\n%s", rec.Body.String())
	}
}
