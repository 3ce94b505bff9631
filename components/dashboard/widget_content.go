package dashboard

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// WidgetConfig carries the discriminated widget payload. The concrete type of
// Content is fully determined by Type; unknown kinds decode to UnknownContent.
type WidgetConfig struct {
	Type    WidgetKind
	Name    string
	Content WidgetContent
}

// WidgetContent is implemented by the closed set of content payloads.
type WidgetContent interface {
	contentKind() WidgetKind
	cloneContent() WidgetContent
}

// ChartContent points a chart widget at the data view that feeds it.
type ChartContent struct {
	ViewID    string   `json:"viewId"`
	ChartType string   `json:"chartType,omitempty"`
	Title     string   `json:"title,omitempty"`
	Dimension string   `json:"dimension,omitempty"`
	Series    []string `json:"series,omitempty"`
}

// MediaContent holds media widgets; Type selects the media variant.
type MediaContent struct {
	Type   MediaKind      `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

// ContainerContent lists the tabs of a container widget.
type ContainerContent struct {
	Tabs []ContainerTab `json:"tabs"`
}

// ContainerTab references a child widget rendered inside a container.
type ContainerTab struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ChildWidgetID string `json:"childWidgetId"`
	Index         int    `json:"index"`
}

// ControllerContent is the payload of controller (filter) widgets.
type ControllerContent struct {
	Type         FacadeType       `json:"type"`
	Name         string           `json:"name,omitempty"`
	RelatedViews []RelatedView    `json:"relatedViews,omitempty"`
	Config       ControllerConfig `json:"config"`
}

// UnknownContent preserves payloads of widget kinds this package does not model.
type UnknownContent struct {
	Raw json.RawMessage
}

func (ChartContent) contentKind() WidgetKind      { return WidgetKindChart }
func (MediaContent) contentKind() WidgetKind      { return WidgetKindMedia }
func (ContainerContent) contentKind() WidgetKind  { return WidgetKindContainer }
func (ControllerContent) contentKind() WidgetKind { return WidgetKindController }
func (UnknownContent) contentKind() WidgetKind    { return "" }

func (c ChartContent) cloneContent() WidgetContent {
	c.Series = slices.Clone(c.Series)
	return c
}

func (c MediaContent) cloneContent() WidgetContent {
	c.Config = maps.Clone(c.Config)
	return c
}

func (c ContainerContent) cloneContent() WidgetContent {
	c.Tabs = slices.Clone(c.Tabs)
	return c
}

func (c ControllerContent) cloneContent() WidgetContent {
	return c.Clone()
}

func (c UnknownContent) cloneContent() WidgetContent {
	c.Raw = append(json.RawMessage(nil), c.Raw...)
	return c
}

// Clone returns a deep copy of the controller content.
func (c ControllerContent) Clone() ControllerContent {
	next := c
	next.RelatedViews = slices.Clone(c.RelatedViews)
	next.Config = c.Config.Clone()
	return next
}

// MarshalJSON emits the raw payload verbatim.
func (c UnknownContent) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return []byte("null"), nil
	}
	return c.Raw, nil
}

// Clone returns a deep copy of the config.
func (c WidgetConfig) Clone() WidgetConfig {
	next := c
	if c.Content != nil {
		next.Content = c.Content.cloneContent()
	}
	return next
}

type widgetConfigEnvelope struct {
	Type    WidgetKind      `json:"type"`
	Name    string          `json:"name,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// MarshalJSON encodes the config as {type, name, content}.
func (c WidgetConfig) MarshalJSON() ([]byte, error) {
	env := widgetConfigEnvelope{Type: c.Type, Name: c.Name}
	if c.Content != nil {
		raw, err := json.Marshal(c.Content)
		if err != nil {
			return nil, fmt.Errorf("dashboard: encode %s content: %w", c.Type, err)
		}
		env.Content = raw
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes content according to the type discriminant.
func (c *WidgetConfig) UnmarshalJSON(data []byte) error {
	var env widgetConfigEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	content, err := decodeContent(env.Type, env.Content)
	if err != nil {
		return err
	}
	c.Type = env.Type
	c.Name = env.Name
	c.Content = content
	return nil
}

func decodeContent(kind WidgetKind, raw json.RawMessage) (WidgetContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case WidgetKindChart:
		var content ChartContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("dashboard: decode chart content: %w", err)
		}
		return content, nil
	case WidgetKindMedia:
		var content MediaContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("dashboard: decode media content: %w", err)
		}
		return content, nil
	case WidgetKindContainer:
		var content ContainerContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("dashboard: decode container content: %w", err)
		}
		return content, nil
	case WidgetKindController:
		var content ControllerContent
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("dashboard: decode controller content: %w", err)
		}
		content.Type = content.Type.Canonical()
		return content, nil
	default:
		return UnknownContent{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// ChartContent returns the chart payload when the widget is a chart.
func (w Widget) ChartContent() (ChartContent, bool) {
	if !w.IsKind(WidgetKindChart) {
		return ChartContent{}, false
	}
	content, ok := w.Config.Content.(ChartContent)
	return content, ok
}

// MediaContent returns the media payload when the widget is a media widget.
func (w Widget) MediaContent() (MediaContent, bool) {
	if !w.IsKind(WidgetKindMedia) {
		return MediaContent{}, false
	}
	content, ok := w.Config.Content.(MediaContent)
	return content, ok
}

// ContainerContent returns the container payload when the widget is a container.
func (w Widget) ContainerContent() (ContainerContent, bool) {
	if !w.IsKind(WidgetKindContainer) {
		return ContainerContent{}, false
	}
	content, ok := w.Config.Content.(ContainerContent)
	return content, ok
}

// ControllerContent returns the controller payload when the widget is a controller.
func (w Widget) ControllerContent() (ControllerContent, bool) {
	if !w.IsKind(WidgetKindController) {
		return ControllerContent{}, false
	}
	content, ok := w.Config.Content.(ControllerContent)
	return content, ok
}

// WithControllerContent derives a new widget whose controller content is the
// result of patch applied to a deep copy of the current content. The receiver
// is never modified.
func (w Widget) WithControllerContent(patch func(ControllerContent) ControllerContent) (Widget, error) {
	content, ok := w.ControllerContent()
	if !ok {
		return Widget{}, fmt.Errorf("%w: %s", ErrNotController, w.ID)
	}
	cfg := w.Config
	cfg.Content = patch(content.Clone())
	return w.WithConfig(cfg), nil
}
