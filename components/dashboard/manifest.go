package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// BoardManifest describes a board, its data views and its widgets in YAML or JSON.
type BoardManifest struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Board   string           `json:"board" yaml:"board"`
	Views   []ManifestView   `json:"views,omitempty" yaml:"views,omitempty"`
	Raw     []map[string]any `json:"widgets" yaml:"widgets"`
	Widgets []Widget         `json:"-" yaml:"-"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestView declares a data view. SQL views are served by the SQL
// providers of the store package; Rows are served in memory.
type ManifestView struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	SQL     string   `json:"sql,omitempty" yaml:"sql,omitempty"`
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*BoardManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader. Widgets are decoded through
// their JSON codec so content is typed by config.type.
func DecodeManifest(r io.Reader) (*BoardManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc BoardManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	widgets, err := decodeManifestWidgets(doc.Raw)
	if err != nil {
		return nil, err
	}
	doc.Widgets = widgets
	for i := range doc.Widgets {
		if doc.Widgets[i].DashboardID == "" {
			doc.Widgets[i].DashboardID = doc.Board
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeManifestWidgets(raw []map[string]any) ([]Widget, error) {
	widgets := make([]Widget, 0, len(raw))
	for idx, item := range raw {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("dashboard: manifest widget at index %d: %w", idx, err)
		}
		var widget Widget
		if err := json.Unmarshal(data, &widget); err != nil {
			return nil, fmt.Errorf("dashboard: manifest widget at index %d: %w", idx, err)
		}
		widgets = append(widgets, widget)
	}
	return widgets, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *BoardManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	if doc.Board == "" {
		return fmt.Errorf("dashboard: manifest is missing board")
	}
	views := make(map[string]struct{}, len(doc.Views))
	for idx, view := range doc.Views {
		if view.ID == "" {
			return fmt.Errorf("dashboard: manifest view at index %d is missing id", idx)
		}
		if _, exists := views[view.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates view %s", view.ID)
		}
		views[view.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.ID == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing id", idx)
		}
		if widget.Config.Type == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing config.type", widget.ID)
		}
		if _, exists := seen[widget.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget %s", widget.ID)
		}
		seen[widget.ID] = struct{}{}
	}
	return nil
}

// StaticViews returns the views that carry inline rows.
func (doc *BoardManifest) StaticViews() []ManifestView {
	var out []ManifestView
	for _, view := range doc.Views {
		if view.SQL == "" {
			out = append(out, view)
		}
	}
	return out
}

// SQLViews maps view ids to their SQL templates.
func (doc *BoardManifest) SQLViews() map[string]string {
	out := map[string]string{}
	for _, view := range doc.Views {
		if view.SQL != "" {
			out[view.ID] = view.SQL
		}
	}
	return out
}

func (doc *BoardManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
