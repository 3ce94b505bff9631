package dashboard

import "io"

// Renderer renders a named board template. The controller passes the board
// view as {"board": {"id", "editing"}, "widgets": [...]} and streams the
// result into out.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(name string, data any, out ...io.Writer) (string, error)

// Render calls f.
func (f RendererFunc) Render(name string, data any, out ...io.Writer) (string, error) {
	return f(name, data, out...)
}

func boardTemplateData(view BoardView) map[string]any {
	return map[string]any{
		"board":   map[string]any{"id": view.ID, "editing": view.Editing},
		"widgets": view.Widgets,
	}
}
