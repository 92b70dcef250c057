package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistryRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry(registry)

	if m.TransactionsCreated == nil || m.HTTPRequests == nil || m.Settlements == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Settlements.WithLabelValues("mark_paid", "changed").Inc()
	m.BalanceCache.WithLabelValues("hit").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.Settlements.WithLabelValues("mark_paid", "changed")); got != 1 {
		t.Fatalf("expected settlement counter 1, got %v", got)
	}
}

func TestNewWithRegistryIsolatesRegistries(t *testing.T) {
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.TransactionsCreated.Inc()

	if got := testutil.ToFloat64(b.TransactionsCreated); got != 0 {
		t.Fatalf("expected separate registries, got %v", got)
	}
}
