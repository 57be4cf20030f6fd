package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/observability"
)

func TestSessionMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnProject(ctx, 10, time.Millisecond, nil)
	m.OnProject(ctx, 0, time.Millisecond, errors.New(errors.ErrCodeInvalidJSON, "bad"))
	m.OnEdit(ctx, observability.EditApplied)
	m.OnEdit(ctx, observability.EditApplied)
	m.OnEdit(ctx, observability.EditDropped)
	m.OnToggle(ctx, "collapse")

	if got := testutil.ToFloat64(m.projections.WithLabelValues("ok")); got != 1 {
		t.Errorf("projections{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.projections.WithLabelValues("INVALID_JSON")); got != 1 {
		t.Errorf("projections{INVALID_JSON} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.edits.WithLabelValues("applied")); got != 2 {
		t.Errorf("edits{applied} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.toggles.WithLabelValues("collapse")); got != 1 {
		t.Errorf("toggles{collapse} = %v, want 1", got)
	}
}

func TestLayoutMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnLayoutComplete(ctx, "LR", time.Millisecond, 0, nil)
	m.OnLayoutComplete(ctx, "TB", time.Millisecond, 3, errors.New(errors.ErrCodeOracleFailure, "down"))

	if got := testutil.ToFloat64(m.layouts.WithLabelValues("LR", "ok")); got != 1 {
		t.Errorf("layouts{LR,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.layouts.WithLabelValues("TB", "fallback")); got != 1 {
		t.Errorf("layouts{TB,fallback} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.layoutFallbacks); got != 3 {
		t.Errorf("fallback nodes = %v, want 3", got)
	}
}

func TestCacheAndHTTPMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 512)
	m.OnRequest(ctx, "GET", "/api/v1/sessions/{id}", 404, time.Millisecond)
	m.OnRequest(ctx, "GET", "/api/v1/sessions/{id}", 200, time.Millisecond)

	for _, op := range []string{"hit", "miss", "set"} {
		if got := testutil.ToFloat64(m.cacheOps.WithLabelValues("layout", op)); got != 1 {
			t.Errorf("cache{%s} = %v, want 1", op, got)
		}
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/sessions/{id}", "4xx")); got != 1 {
		t.Errorf("requests{4xx} = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Install()
	if observability.Session() != observability.SessionHooks(m) {
		t.Error("session hooks not installed")
	}
	if observability.HTTP() != observability.HTTPHooks(m) {
		t.Error("http hooks not installed")
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 301: "3xx", 422: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
