package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// EChartsRenderer turns a chart widget and its view rows into go-echarts HTML.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer with a five minute cache and the
// assets host from EChartsAssetsHost.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:      NewChartCache(5 * time.Minute),
		theme:      types.ThemeWesteros,
		assetsHost: EChartsAssetsHost(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is one labeled value.
type ChartPoint struct {
	Label string
	Value float64
}

// Render returns chart HTML for variant using data. Results are cached per
// widget, content and rows, so a new filter value renders fresh markup.
func (r *EChartsRenderer) Render(variant ChartVariant, data ViewData) (string, error) {
	content := variant.Content
	chartType := strings.ToLower(content.ChartType)
	if chartType == "" {
		chartType = "bar"
	}
	labels, series := chartSeries(content, data)
	renderFn := func() (string, error) {
		return r.render(chartType, content.Title, labels, series)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := chartCacheKey(variant.WidgetID, map[string]any{
		"content": content,
		"data":    data,
		"theme":   r.theme,
	})
	return r.cache.GetOrRender(key, renderFn)
}

func (r *EChartsRenderer) render(chartType, title string, labels []string, series []ChartSeries) (string, error) {
	switch chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(title)...)
		bar.SetXAxis(labels)
		for _, s := range series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions(title)...)
		line.SetXAxis(labels)
		for _, s := range series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions(title)...)
		if len(series) > 0 {
			pie.AddSeries(series[0].Name, toPieData(series[0].Points))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", chartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// chartSeries splits rows into axis labels (the dimension column) and one
// series per value column. Without explicit series every numeric column
// except the dimension is plotted.
func chartSeries(content ChartContent, data ViewData) ([]string, []ChartSeries) {
	if len(data.Columns) == 0 {
		return nil, nil
	}
	dimension := content.Dimension
	if dimension == "" {
		dimension = data.Columns[0]
	}
	dimIdx := slices.Index(data.Columns, dimension)
	valueColumns := content.Series
	if len(valueColumns) == 0 {
		for idx, col := range data.Columns {
			if idx != dimIdx && numericColumn(data.Rows, idx) {
				valueColumns = append(valueColumns, col)
			}
		}
	}

	labels := make([]string, len(data.Rows))
	for i, row := range data.Rows {
		if dimIdx >= 0 && dimIdx < len(row) {
			labels[i], _ = scalarKey(row[dimIdx])
		}
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("Item %d", i+1)
		}
	}
	series := make([]ChartSeries, 0, len(valueColumns))
	for _, col := range valueColumns {
		idx := slices.Index(data.Columns, col)
		if idx < 0 {
			continue
		}
		points := make([]ChartPoint, len(data.Rows))
		for i, row := range data.Rows {
			points[i] = ChartPoint{Label: labels[i]}
			if idx < len(row) {
				points[i].Value = float64Value(row[idx])
			}
		}
		series = append(series, ChartSeries{Name: col, Points: points})
	}
	return labels, series
}

func numericColumn(rows [][]any, idx int) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if idx >= len(row) {
			return false
		}
		switch v := row[idx].(type) {
		case float64, float32, int, int64, int32, uint64:
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		data[i] = opts.PieData{Name: point.Label, Value: point.Value}
	}
	return data
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint64:
		return float64(val)
	case []byte:
		f, _ := strconv.ParseFloat(string(val), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}
	return 0
}
