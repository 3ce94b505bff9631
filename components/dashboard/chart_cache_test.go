package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	key := chartCacheKey("chart-1", map[string]any{"rows": 1})
	val1, err := cache.GetOrRender(key, render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender(key, render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(2 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCachePurgeDropsWidgetEntries(t *testing.T) {
	cache := NewChartCache(time.Minute)
	render := func() (string, error) { return "x", nil }
	_, _ = cache.GetOrRender(chartCacheKey("chart-1", 1), render)
	_, _ = cache.GetOrRender(chartCacheKey("chart-1", 2), render)
	_, _ = cache.GetOrRender(chartCacheKey("chart-10", 1), render)
	require.Equal(t, 3, cache.Len())

	cache.Purge("chart-1")
	assert.Equal(t, 1, cache.Len())
}

func TestConfigHashIgnoresMapOrder(t *testing.T) {
	a := configHash(map[string]any{"a": 1, "b": []any{"x"}})
	b := configHash(map[string]any{"b": []any{"x"}, "a": 1})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, configHash(map[string]any{"a": 2, "b": []any{"x"}}))
	assert.Equal(t, "empty", configHash(nil))
}
