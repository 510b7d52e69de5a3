package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"catalogcore/pkg/domain"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatalf("expected generated name")
	}
	rec.RecordDuration("materialize", 5*time.Millisecond)
	rec.RecordDuration("materialize", 5*time.Millisecond)
	rec.RecordResult("materialize", "resolved")
	rec.RecordResult("materialize", "resolved")
	rec.RecordResult("materialize", "not_found")
	rec.RecordDuration("", time.Second)
	rec.RecordResult("", "resolved")
	rec.RecordResult("map", "")

	snap := rec.Snapshot()
	if snap.DurationsMS["materialize"] != 10 {
		t.Fatalf("expected 10ms total, got %v", snap.DurationsMS["materialize"])
	}
	if snap.Results["materialize"]["resolved"] != 2 || snap.Results["materialize"]["not_found"] != 1 {
		t.Fatalf("unexpected result counters: %v", snap.Results)
	}
	if _, ok := snap.Results[""]; ok {
		t.Fatalf("empty operation must be ignored")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.RecordDuration("map", 20*time.Millisecond)
	rec.RecordResult("map", "ok")
	rec.RecordResult("map", "ok")
	rec.RecordDuration("", time.Second)
	rec.RecordResult("map", "")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
		if fam.GetName() == "catalogcore_operation_results_total" {
			if len(fam.GetMetric()) != 1 {
				t.Fatalf("expected one labeled counter, got %d", len(fam.GetMetric()))
			}
			if v := fam.GetMetric()[0].GetCounter().GetValue(); v != 2 {
				t.Fatalf("expected counter 2, got %v", v)
			}
		}
	}
	if !found["catalogcore_operation_duration_seconds"] || !found["catalogcore_operation_results_total"] {
		t.Fatalf("expected both collectors registered, got %v", found)
	}

	// duplicate registration must surface
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestCatalogRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	handles, resolver := handleFixtures(2)
	rec := NewExpvarMetricsRecorder("")
	c := mustCatalog(t, resolver, WithMetrics(rec))
	if err := c.Add(ctx, []domain.Handle(handles)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.Members(ctx); err != nil {
		t.Fatalf("members: %v", err)
	}
	if _, err := Map(ctx, c, func(_ context.Context, m domain.Handle) (string, error) {
		return m.Name(), nil
	}, 2); err != nil {
		t.Fatalf("map: %v", err)
	}
	snap := rec.Snapshot()
	if snap.Results["materialize"]["resolved"] == 0 {
		t.Fatalf("expected materialize outcome recorded: %v", snap.Results)
	}
	if snap.Results["map"]["ok"] == 0 {
		t.Fatalf("expected map outcome recorded: %v", snap.Results)
	}
}
