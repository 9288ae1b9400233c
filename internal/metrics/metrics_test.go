package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollector_ReservationCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ReservationCreated()
	c.ReservationCreated()
	c.SlotConflict()
	c.NotifierFailure()

	if got := counterValue(t, reg, "scheduler_reservations_created_total"); got != 2 {
		t.Errorf("reservations_created_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "scheduler_slot_conflicts_total"); got != 1 {
		t.Errorf("slot_conflicts_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "scheduler_notifier_failures_total"); got != 1 {
		t.Errorf("notifier_failures_total = %v, want 1", got)
	}
}

func TestCollector_RecordHTTPStatus(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(409)
	c.RecordRequestLatency(25 * time.Millisecond)

	if got := counterValue(t, reg, "scheduler_http_status_total"); got != 3 {
		t.Errorf("http_status_total sum = %v, want 3", got)
	}
}

func TestHandler_ServesScrapeOutput(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ReservationCreated()

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("scrape request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	if !strings.Contains(string(body), "scheduler_reservations_created_total 1") {
		t.Fatalf("scrape output missing counter:\n%s", body)
	}
}
