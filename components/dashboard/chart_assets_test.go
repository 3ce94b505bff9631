package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEChartsAssetsHost(t *testing.T) {
	t.Setenv(envEChartsCDN, "")
	assert.Equal(t, DefaultEChartsAssetsHost, EChartsAssetsHost())

	t.Setenv(envEChartsCDN, " https://cdn.internal/echarts ")
	assert.Equal(t, "https://cdn.internal/echarts/", EChartsAssetsHost())

	renderer := NewEChartsRenderer()
	assert.Equal(t, "https://cdn.internal/echarts/", renderer.assetsHost)
}
