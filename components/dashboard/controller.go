package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const defaultBoardTemplate = "board"

// ControllerOptions wires a board controller.
type ControllerOptions struct {
	Board    *Board
	Renderer Renderer
	Charts   *EChartsRenderer
	Template string
	// SubmitURL formats the form action of controller widgets; %s is the widget id.
	SubmitURL string
}

// Controller turns a board into template payloads and rendered HTML.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the board into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultBoardTemplate
	}
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.SubmitURL == "" {
		opts.SubmitURL = "/boards/widgets/%s/submit"
	}
	return &Controller{opts: opts}
}

// BoardView is the template payload of a board.
type BoardView struct {
	ID      string           `json:"id"`
	Editing bool             `json:"editing"`
	Widgets []map[string]any `json:"widgets"`
}

// Payload dispatches every widget of the board and builds its view model.
// Widget level problems degrade to a placeholder; only store failures return
// an error.
func (c *Controller) Payload(ctx context.Context, boardID string, editing bool) (BoardView, error) {
	if c.opts.Board == nil {
		return BoardView{}, errMissingWidgetStore
	}
	widgets, err := c.opts.Board.Widgets(ctx, boardID)
	if err != nil {
		return BoardView{}, err
	}
	view := BoardView{ID: boardID, Editing: editing, Widgets: make([]map[string]any, 0, len(widgets))}
	for _, widget := range widgets {
		variant := c.opts.Board.Dispatch(ctx, widget, editing)
		view.Widgets = append(view.Widgets, c.widgetView(ctx, widget, variant))
	}
	return view, nil
}

// RenderTemplate renders the board template into out.
func (c *Controller) RenderTemplate(ctx context.Context, boardID string, editing bool, out io.Writer) error {
	if c.opts.Renderer == nil {
		return fmt.Errorf("dashboard: controller renderer not configured")
	}
	view, err := c.Payload(ctx, boardID, editing)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, boardTemplateData(view), out)
	return err
}

func (c *Controller) widgetView(ctx context.Context, widget Widget, variant Variant) map[string]any {
	out := map[string]any{
		"id":   widget.ID,
		"name": widget.Config.Name,
		"kind": string(variant.Kind()),
	}
	switch v := variant.(type) {
	case ChartVariant:
		out["view_id"] = v.Content.ViewID
		data, ok := c.opts.Board.Data(v.WidgetID)
		if !ok {
			fresh, err := c.opts.Board.Refresh(ctx, v.WidgetID)
			if err != nil {
				return placeholderView(out, PlaceholderWidget, err.Error())
			}
			data = fresh
		}
		html, err := c.opts.Charts.Render(v, data)
		if err != nil {
			return placeholderView(out, PlaceholderWidget, err.Error())
		}
		out["chart_html"] = html
	case MediaVariant:
		out["media"] = string(v.Media)
		out["config"] = v.Content.Config
	case ContainerVariant:
		out["tabs"] = v.Tabs
	case ControllerVariant:
		if !c.opts.Board.Visible(ctx, widget) {
			return placeholderView(out, PlaceholderWidget, "hidden")
		}
		machine, err := c.opts.Board.Controller(ctx, v.WidgetID)
		if err != nil {
			return placeholderView(out, PlaceholderWidget, err.Error())
		}
		control, ok := machine.View()
		if !ok {
			return placeholderView(out, PlaceholderWidget, "no control")
		}
		out["facade"] = string(control.Facade())
		out["control"] = ControlPayload(control)
		out["submit_url"] = fmt.Sprintf(c.opts.SubmitURL, v.WidgetID)
	case FallbackVariant:
		return placeholderView(out, v.Placeholder, v.Reason)
	}
	return out
}

func placeholderView(out map[string]any, placeholder, reason string) map[string]any {
	out["kind"] = "fallback"
	out["placeholder"] = placeholder
	out["reason"] = reason
	return out
}

// ControlPayload flattens a control into a JSON-friendly map including its facade.
func ControlPayload(control Control) map[string]any {
	payload := map[string]any{}
	if control == nil {
		return payload
	}
	data, err := json.Marshal(control)
	if err == nil {
		_ = json.Unmarshal(data, &payload)
	}
	payload["facade"] = string(control.Facade())
	return payload
}
