package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetConfigDecodesByKind(t *testing.T) {
	raw := `[
	  {"id":"c","config":{"type":"chart","content":{"viewId":"sales","chartType":"line"}}},
	  {"id":"m","config":{"type":"media","content":{"type":"iframe","config":{"url":"https://example.com"}}}},
	  {"id":"t","config":{"type":"container","content":{"tabs":[{"id":"t1","name":"One","childWidgetId":"c","index":0}]}}},
	  {"id":"f","config":{"type":"controller","content":{"type":"slider","config":{"valueOptionType":"custom","minValue":0}}}}
	]`
	var widgets []Widget
	require.NoError(t, json.Unmarshal([]byte(raw), &widgets))
	require.Len(t, widgets, 4)

	chart, ok := widgets[0].ChartContent()
	require.True(t, ok)
	assert.Equal(t, "sales", chart.ViewID)

	media, ok := widgets[1].MediaContent()
	require.True(t, ok)
	assert.Equal(t, MediaKindIframe, media.Type)

	container, ok := widgets[2].ContainerContent()
	require.True(t, ok)
	assert.Equal(t, "c", container.Tabs[0].ChildWidgetID)

	controller, ok := widgets[3].ControllerContent()
	require.True(t, ok)
	assert.Equal(t, FacadeSlider, controller.Type)
	require.NotNil(t, controller.Config.MinValue)
	assert.Equal(t, 0.0, *controller.Config.MinValue)

	_, ok = widgets[0].ControllerContent()
	assert.False(t, ok)
}

func TestWidgetConfigCanonicalizesFacade(t *testing.T) {
	var cfg WidgetConfig
	require.NoError(t, json.Unmarshal([]byte(`{"type":"controller","content":{"type":"RangeTime","config":{}}}`), &cfg))
	content, ok := cfg.Content.(ControllerContent)
	require.True(t, ok)
	assert.Equal(t, FacadeRangeTime, content.Type)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"controller","content":{"type":"knob","config":{}}}`), &cfg))
	content, ok = cfg.Content.(ControllerContent)
	require.True(t, ok)
	assert.Equal(t, FacadeType("knob"), content.Type)
}

func TestWidgetConfigPreservesUnknownKinds(t *testing.T) {
	raw := `{"type":"kanban","name":"Board","content":{"lanes":["todo","done"]}}`
	var cfg WidgetConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	unknown, ok := cfg.Content.(UnknownContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"lanes":["todo","done"]}`, string(unknown.Raw))

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestWidgetConfigRejectsMalformedContent(t *testing.T) {
	var cfg WidgetConfig
	err := json.Unmarshal([]byte(`{"type":"controller","content":{"type":5}}`), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode controller content")
}

func TestWithControllerContentLeavesReceiver(t *testing.T) {
	original := controllerWidget("ctl", FacadeMultiDropdownList, ControllerConfig{ControllerValues: []any{"a"}},
		fieldView("sales", "region"))

	next, err := original.WithControllerContent(func(c ControllerContent) ControllerContent {
		c.Config.ControllerValues[0] = "changed"
		c.RelatedViews[0].FieldValue = "country"
		return c
	})
	require.NoError(t, err)

	assert.Equal(t, "changed", mustContent(t, next).Config.ControllerValues[0])
	before := mustContent(t, original)
	assert.Equal(t, "a", before.Config.ControllerValues[0])
	assert.Equal(t, "region", before.RelatedViews[0].FieldValue)

	_, err = chartWidget("chart", "sales").WithControllerContent(func(c ControllerContent) ControllerContent { return c })
	assert.ErrorIs(t, err, ErrNotController)
}
