// internal/monitoring/metrics_test.go
package monitoring

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveScrape(120*time.Millisecond, nil)
	m.ObserveScrape(0, errors.New("boom"))
	m.ObserveDiscovery(3)
	m.ObserveDiscovery(0)
	m.ObserveUpsert(false)
	m.ObserveUpsert(true)
	m.ObserveValidation("Match")
	m.ObserveExport(10)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveScrape(time.Second, nil)
	m.ObserveDiscovery(1)
	m.ObserveUpsert(true)
	m.ObserveValidation("Match")
	m.ObserveExport(1)
}
