package observability_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/dsl"
	"github.com/aretw0/pageflow/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	b := dsl.New()
	b.Add("menu").Buttons("Pick").Button("GO", "Go").Go("GO", "detail")
	b.Add("detail").Text("Detail")
	loader, err := b.Build()
	require.NoError(t, err)

	eng, err := pageflow.New(
		pageflow.WithLoader(loader),
		pageflow.WithEntryPage("menu"),
		pageflow.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.Render(ctx, "menu", nil)
	require.NoError(t, err)
	_, err = eng.Render(ctx, "missing_page", nil)
	require.Error(t, err)

	eng.Select(ctx, "menu", "GO", nil)
	eng.Select(ctx, "menu", "WRONG", nil)
	eng.Select(ctx, "ghost", "GO", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("menu", string(domain.KindButtons))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Selections.WithLabelValues("menu", observability.ResultResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Selections.WithLabelValues("menu", observability.ResultUnresolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unresolved.WithLabelValues(string(domain.ReasonUnknownSelection))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unresolved.WithLabelValues(string(domain.ReasonPageNotFound))))
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.Fallbacks.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pageflow_fallbacks_total 1")
}
