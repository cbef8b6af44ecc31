package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(nil, "counselctl")

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	var names []string
	for d := range ch {
		names = append(names, d.String())
	}
	require.Len(t, names, 6)
	assert.Contains(t, names[0], "redis_pool_hits_total")
}

func TestPoolStatsCollector_CollectsFromLiveClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, RegisterPoolMetrics(reg, client, "counselctl"))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	assert.Equal(t, 6, testutil.CollectAndCount(NewPoolStatsCollector(client, "counselctl")))
	assert.GreaterOrEqual(t, client.PoolStats().TotalConns, uint32(1))
}
