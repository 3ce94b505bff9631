package dashboard

import (
	"os"
	"strings"
)

const (
	// DefaultEChartsAssetsHost is the public go-echarts asset bucket.
	DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envEChartsCDN overrides the assets host, e.g. to point at a self-hosted bucket.
	envEChartsCDN = "DASHBOARD_CONTROLS_ECHARTS_CDN"
)

// EChartsAssetsHost returns the assets host used by chart HTML, respecting
// DASHBOARD_CONTROLS_ECHARTS_CDN when set.
func EChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return DefaultEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
