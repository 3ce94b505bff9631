package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
version: "1"
name: Sales overview
board: sales-board
views:
  - id: sales
    columns: [region, amount]
    rows:
      - [eu, 10]
      - [us, 20]
  - id: orders
    sql: SELECT region, total FROM orders
widgets:
  - id: region
    config:
      type: controller
      name: Region
      content:
        type: multiDropdownList
        relatedViews:
          - viewId: sales
            relatedCategory: field
            fieldValue: region
        config:
          valueOptionType: common
          assistViewFields: [sales, region]
  - id: chart
    config:
      type: chart
      content:
        viewId: sales
        chartType: bar
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "sales-board", doc.Board)
	require.Len(t, doc.Widgets, 2)
	assert.Equal(t, "sales-board", doc.Widgets[0].DashboardID)

	content, ok := doc.Widgets[0].ControllerContent()
	require.True(t, ok)
	assert.Equal(t, FacadeMultiDropdownList, content.Type)
	viewID, field, ok := content.Config.AssistView()
	require.True(t, ok)
	assert.Equal(t, "sales", viewID)
	assert.Equal(t, "region", field)

	chart, ok := doc.Widgets[1].ChartContent()
	require.True(t, ok)
	assert.Equal(t, "sales", chart.ViewID)

	static := doc.StaticViews()
	require.Len(t, static, 1)
	assert.Equal(t, "sales", static[0].ID)
	assert.Equal(t, map[string]string{"orders": "SELECT region, total FROM orders"}, doc.SQLViews())
}

func TestDecodeManifestErrors(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"unknown field":     "version: \"1\"\nboard: b\ncolour: red\n",
		"bad version":       "version: \"2\"\nboard: b\n",
		"missing board":     "version: \"1\"\n",
		"duplicate widgets": "board: b\nwidgets:\n  - {id: a, config: {type: chart}}\n  - {id: a, config: {type: chart}}\n",
		"missing type":      "board: b\nwidgets:\n  - {id: a, config: {name: x}}\n",
		"duplicate views":   "board: b\nviews:\n  - {id: v}\n  - {id: v}\n",
	}
	for name, payload := range cases {
		_, err := DecodeManifest(strings.NewReader(payload))
		assert.Error(t, err, name)
	}
}

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o600))

	doc, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	_, err = ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestManifestFeedsBoard(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	registry := NewRegistry()
	require.NoError(t, RegisterStaticViews(registry, doc.StaticViews()))
	board := NewBoard(BoardOptions{Store: NewInMemoryWidgetStore(doc.Widgets...), Providers: registry})

	_, committed, err := board.SubmitController(t.Context(), "region", FormSubmission{Value: "us"})
	require.NoError(t, err)
	require.True(t, committed)

	data, ok := board.Data("chart")
	require.True(t, ok)
	assert.Equal(t, [][]any{{"us", 20}}, data.Rows)
}
