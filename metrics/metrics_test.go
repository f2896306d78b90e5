//go:build unit
// +build unit

package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/go-dbpool/db/pool"
	"github.com/atlaspay/go-dbpool/db/pool/pooltest"
	"github.com/atlaspay/go-dbpool/metrics"
)

func newReadyPool(t *testing.T) *pool.Pool {
	t.Helper()
	f := &pooltest.Factory{}
	p, err := pool.New(f.New, pool.Options{MinSize: 1, MaxSize: 3})
	require.NoError(t, err)
	require.NoError(t, p.Initialize(context.Background()))
	return p
}

func TestHealth_WiredToPool(t *testing.T) {
	p := newReadyPool(t)

	h, _ := metrics.New(metrics.Options{
		Health: func(ctx context.Context, r *http.Request) error {
			return p.HealthCheck(ctx)
		},
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, p.Shutdown(context.Background()))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetrics_ExposePoolCollector(t *testing.T) {
	p := newReadyPool(t)

	h, _ := metrics.New(metrics.Options{
		Register: func(reg prometheus.Registerer) error {
			return reg.Register(pool.NewCollector(p, "billing"))
		},
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "billing_dbpool_available"))
	assert.True(t, strings.Contains(string(body), "billing_dbpool_capacity"))
}

func TestHealth_DefaultOKWithoutProbe(t *testing.T) {
	h, _ := metrics.New(metrics.Options{})
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
