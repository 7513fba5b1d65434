package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	m.MessageReceived("read")
	m.MessageSent("read_ok")
	m.Retries(3)
	m.Acks(AckMatched, 1)
	m.SetPending(2)
	m.SetSeen(4)
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.MessageReceived("broadcast")
	m.MessageReceived("broadcast")
	m.MessageSent("broadcast_ok")
	m.Retries(3)
	m.Retries(0)
	m.Acks(AckMatched, 2)
	m.Acks(AckUnknown, 1)
	m.SetPending(5)
	m.SetSeen(7)

	if v := testutil.ToFloat64(m.received.WithLabelValues("broadcast")); v != 2 {
		t.Fatalf("received should be 2, not %v", v)
	}
	if v := testutil.ToFloat64(m.sent.WithLabelValues("broadcast_ok")); v != 1 {
		t.Fatalf("sent should be 1, not %v", v)
	}
	if v := testutil.ToFloat64(m.retries); v != 3 {
		t.Fatalf("retries should be 3, not %v", v)
	}
	if v := testutil.ToFloat64(m.acks.WithLabelValues(AckMatched)); v != 2 {
		t.Fatalf("matched acks should be 2, not %v", v)
	}
	if v := testutil.ToFloat64(m.acks.WithLabelValues(AckUnknown)); v != 1 {
		t.Fatalf("unknown acks should be 1, not %v", v)
	}
	if v := testutil.ToFloat64(m.pending); v != 5 {
		t.Fatalf("pending should be 5, not %v", v)
	}
	if v := testutil.ToFloat64(m.seen); v != 7 {
		t.Fatalf("seen should be 7, not %v", v)
	}
}

func TestInstrument(t *testing.T) {
	h := Instrument("teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("teapot", "4xx"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/teapot", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status should be %d, not %d", http.StatusTeapot, rec.Code)
	}
	if v := testutil.ToFloat64(RequestsTotal.WithLabelValues("teapot", "4xx")); v != before+1 {
		t.Fatalf("requests_total should be %v, not %v", before+1, v)
	}
}

func TestMetricsHandler(t *testing.T) {
	SetBuildInfo("test", "abc")

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"murmur_build_info", "murmur_uptime_seconds"} {
		if !strings.Contains(body, name) {
			t.Fatalf("/metrics should expose %s:\n%s", name, body)
		}
	}
}
