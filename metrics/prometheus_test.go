package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "users", want: "users"},
		{in: "UserLoader", want: "user_loader"},
		{in: "*pkg.UserLoader[int]", want: "pkg_user_loader_int"},
		{in: "HTTPClient", want: "http_client"},
		{in: "orders-v2", want: "orders_v_2"},
		{in: "2fa codes", want: "_2fa_codes"},
		{in: "café", want: "caf"},
		{in: "__a__b__", want: "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MetricName(tt.in); got != tt.want {
				t.Errorf("MetricName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrometheusReporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg, "")
	if err != nil {
		t.Fatalf("NewCollector() failed: %v", err)
	}

	users := collector.Reporter("UserLookup")
	users.ReportMiss()
	users.ReportHit()
	users.ReportHit()

	orders := collector.Reporter("orders")
	orders.ReportFault()

	expected := `
# HELP memoize_calls_total Memoized calls by memoizer and outcome (hit, miss, fault).
# TYPE memoize_calls_total counter
memoize_calls_total{memoizer="orders",outcome="fault"} 1
memoize_calls_total{memoizer="orders",outcome="hit"} 0
memoize_calls_total{memoizer="orders",outcome="miss"} 0
memoize_calls_total{memoizer="user_lookup",outcome="fault"} 0
memoize_calls_total{memoizer="user_lookup",outcome="hit"} 2
memoize_calls_total{memoizer="user_lookup",outcome="miss"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "memoize_calls_total"); err != nil {
		t.Error(err)
	}
}

func TestNewCollector_ReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewCollector(reg, "app")
	if err != nil {
		t.Fatalf("NewCollector() failed: %v", err)
	}
	second, err := NewCollector(reg, "app")
	if err != nil {
		t.Fatalf("second NewCollector() failed: %v", err)
	}

	first.Reporter("a").ReportHit()
	second.Reporter("a").ReportHit()

	if got := testutil.ToFloat64(first.calls.WithLabelValues("a", "hit")); got != 2 {
		t.Errorf("expected both collectors to share counters, got %v", got)
	}
}

func TestNewCollector_NilRegisterer(t *testing.T) {
	if _, err := NewCollector(nil, ""); err == nil {
		t.Error("expected an error for a nil registerer")
	}
}
