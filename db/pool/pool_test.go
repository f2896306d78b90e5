//go:build unit
// +build unit

package pool_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/go-dbpool/db/pool"
	"github.com/atlaspay/go-dbpool/db/pool/pooltest"
)

func newPool(t *testing.T, f *pooltest.Factory, opts pool.Options) *pool.Pool {
	t.Helper()
	p, err := pool.New(f.New, opts)
	require.NoError(t, err)
	return p
}

func TestNew_InvalidOptions(t *testing.T) {
	f := &pooltest.Factory{}

	_, err := pool.New(f.New, pool.Options{MinSize: 2, MaxSize: 0})
	assert.Error(t, err)

	_, err = pool.New(f.New, pool.Options{MinSize: 5, MaxSize: 2})
	assert.Error(t, err)

	_, err = pool.New(nil, pool.Options{MinSize: 1, MaxSize: 2})
	assert.Error(t, err)
}

func TestInitialize_PopulatesMinSize(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})

	require.NoError(t, p.Initialize(context.Background()))

	s := p.Stats()
	assert.Equal(t, 2, s.Available)
	assert.Equal(t, 0, s.InUse)
	assert.Equal(t, 2, f.Created())
	assert.Equal(t, pool.StateReady, p.State())
}

func TestInitialize_FirstConnectionFailureIsFatal(t *testing.T) {
	f := &pooltest.Factory{}
	f.Fail(errors.New("connection refused"))
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, pool.StateUninitialized, p.State())

	_, err = p.Acquire(context.Background())
	assert.ErrorIs(t, err, pool.ErrNotReady)
}

func TestInitialize_Idempotent(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})

	require.NoError(t, p.Initialize(context.Background()))
	require.NoError(t, p.Initialize(context.Background()))

	assert.Equal(t, 2, f.Created())
}

func TestInitialize_ConcurrentFirstCall(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 3, MaxSize: 5})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Initialize(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, f.Created())
	assert.Equal(t, 3, p.Stats().Available)
}

func TestAcquire_GrowsToMaxThenFailsFast(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	var held []pool.Conn
	for i := 0; i < 3; i++ {
		c, err := p.Acquire(context.Background())
		require.NoError(t, err)
		held = append(held, c)
	}

	// third acquire grew the pool by one beyond the initial two
	assert.Equal(t, 3, f.Created())
	assert.Equal(t, 3, p.Stats().InUse)

	for i := 0; i < 2; i++ {
		c, err := p.Acquire(context.Background())
		require.NoError(t, err)
		held = append(held, c)
	}
	assert.Equal(t, 5, f.Created())

	_, err := p.Acquire(context.Background())
	assert.ErrorIs(t, err, pool.ErrExhausted)
	assert.Equal(t, uint64(1), p.Stats().Exhaustions)

	for _, c := range held {
		p.Release(c)
	}
	s := p.Stats()
	assert.Equal(t, 5, s.Available)
	assert.Equal(t, 0, s.InUse)
}

func TestAcquire_LIFOReuse(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	a, err := p.Acquire(context.Background())
	require.NoError(t, err)
	b, err := p.Acquire(context.Background())
	require.NoError(t, err)

	p.Release(a)
	p.Release(b)

	// b was released last, so it comes back first
	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestAcquire_StaleConnectionReplacedSilently(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 1, MaxSize: 2})
	require.NoError(t, p.Initialize(context.Background()))

	stale := f.Conn(0)
	stale.PingErr = errors.New("broken pipe")

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, stale, c)
	assert.True(t, stale.Closed())

	s := p.Stats()
	assert.Equal(t, uint64(1), s.StaleReplaced)
	assert.Equal(t, 1, s.InUse)
	assert.Equal(t, 0, s.Available)
}

func TestAcquire_CancelledContextDoesNotDiscardIdleConns(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 3, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// the failed pings say nothing about connection health: everything
	// stays pooled, nothing is closed, nothing counts as stale
	s := p.Stats()
	assert.Equal(t, 3, s.Available)
	assert.Equal(t, 0, s.InUse)
	assert.Equal(t, uint64(0), s.StaleReplaced)
	for i := 0; i < f.Created(); i++ {
		assert.False(t, f.Conn(i).Closed())
	}

	// a live caller still gets a connection afterwards
	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	p.Release(c)
	assert.Equal(t, 3, f.Created())
}

func TestAcquire_ReplacementFailureSurfacesConnectivityError(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 1, MaxSize: 1})
	require.NoError(t, p.Initialize(context.Background()))

	f.Conn(0).PingErr = errors.New("broken pipe")
	f.Fail(errors.New("connection refused"))

	_, err := p.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	// the stale connection no longer counts toward capacity
	assert.Equal(t, 0, p.Stats().InUse)
}

func TestRelease_NoOps(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 1, MaxSize: 2})
	require.NoError(t, p.Initialize(context.Background()))

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)

	p.Release(c)
	p.Release(c) // double release
	p.Release(nil)
	p.Release(&pooltest.Conn{ID: 99}) // never issued by this pool

	s := p.Stats()
	assert.Equal(t, 1, s.Available)
	assert.Equal(t, 0, s.InUse)
}

func TestShutdown_ClosesEverythingAndIsTerminal(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	held, err := p.Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, pool.StateClosed, p.State())
	for i := 0; i < f.Created(); i++ {
		assert.True(t, f.Conn(i).Closed())
	}

	// second call is a no-op
	require.NoError(t, p.Shutdown(context.Background()))

	_, err = p.Acquire(context.Background())
	assert.ErrorIs(t, err, pool.ErrClosed)

	// releasing after shutdown must not resurrect the connection
	p.Release(held)
	assert.Equal(t, 0, p.Stats().Available)
}

func TestShutdown_AttemptsEveryCloseDespiteFailures(t *testing.T) {
	f := &pooltest.Factory{Configure: func(c *pooltest.Conn) {
		if c.ID == 1 {
			c.CloseErr = errors.New("close failed")
		}
	}}
	p := newPool(t, f, pool.Options{MinSize: 3, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	err := p.Shutdown(context.Background())
	require.Error(t, err)
	for i := 0; i < 3; i++ {
		assert.True(t, f.Conn(i).Closed())
	}
}

func TestHealthCheck(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 1, MaxSize: 2})
	require.NoError(t, p.Initialize(context.Background()))

	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.Equal(t, 1, p.Stats().Available)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.ErrorIs(t, p.HealthCheck(context.Background()), pool.ErrClosed)
}

func TestConcurrentAcquireReleaseKeepsInvariant(t *testing.T) {
	f := &pooltest.Factory{}
	const maxSize = 4
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: maxSize})
	require.NoError(t, p.Initialize(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c, err := p.Acquire(context.Background())
				if errors.Is(err, pool.ErrExhausted) {
					continue
				}
				if !assert.NoError(t, err) {
					return
				}
				p.Release(c)
			}
		}()
	}
	wg.Wait()

	s := p.Stats()
	assert.LessOrEqual(t, s.Available+s.InUse, maxSize)
	assert.Equal(t, 0, s.InUse)
	assert.LessOrEqual(t, f.Created(), maxSize)
}

func TestCollector_ExportsPoolStats(t *testing.T) {
	f := &pooltest.Factory{}
	p := newPool(t, f, pool.Options{MinSize: 2, MaxSize: 5})
	require.NoError(t, p.Initialize(context.Background()))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(pool.NewCollector(p, "testsvc")))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range mfs {
		m := mf.GetMetric()[0]
		if m.GetGauge() != nil {
			byName[mf.GetName()] = m.GetGauge().GetValue()
		} else if m.GetCounter() != nil {
			byName[mf.GetName()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), byName["testsvc_dbpool_available"])
	assert.Equal(t, float64(0), byName["testsvc_dbpool_in_use"])
	assert.Equal(t, float64(5), byName["testsvc_dbpool_capacity"])
}
