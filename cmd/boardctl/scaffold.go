package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ettle/strcase"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

type scaffoldCmd struct {
	Manifest  string   `required:"" type:"path" help:"Board manifest to update (created when missing)."`
	Board     string   `help:"Board id used when the manifest is created."`
	ID        string   `name:"id" help:"Controller widget id (generated when empty)."`
	Name      string   `help:"Display name (defaults to the id in title case)."`
	Facade    string   `required:"" help:"Facade type, any casing (multi-dropdown-list, rangeTime, ...)."`
	View      []string `help:"Related view ids (use multiple --view flags)."`
	Field     string   `required:"" help:"Column or template variable the controller binds to."`
	Variable  bool     `help:"Bind as a template variable instead of a view column."`
	Custom    []string `help:"Custom option keys; without them the options come from the first view."`
	Overwrite bool     `help:"Replace an existing widget with the same id."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, rt *runtime) error {
	facade, ok := dashboard.ParseFacadeType(cmd.Facade)
	if !ok {
		return fmt.Errorf("boardctl: unknown facade %q (known: %v)", cmd.Facade, dashboard.FacadeTypes())
	}
	if len(cmd.View) == 0 {
		return errors.New("boardctl: at least one --view is required")
	}
	if cmd.ID == "" {
		cmd.ID = "controller-" + uuid.NewString()[:8]
	}
	path, err := filepath.Abs(cmd.Manifest)
	if err != nil {
		return fmt.Errorf("boardctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path, cmd.Board)
	if err != nil {
		return err
	}
	widget := cmd.widget(doc.Board, facade)
	raw, err := widgetMap(widget)
	if err != nil {
		return err
	}

	idx := -1
	for i, existing := range doc.Widgets {
		if existing.ID == widget.ID {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0 && !cmd.Overwrite:
		return fmt.Errorf("boardctl: manifest already defines widget %s (use --overwrite to replace)", widget.ID)
	case idx >= 0:
		doc.Raw[idx] = raw
	default:
		doc.Raw = append(doc.Raw, raw)
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "✓ Added %s controller %s to %s\n", facade, widget.ID, path)
	return nil
}

func (cmd *scaffoldCmd) widget(boardID string, facade dashboard.FacadeType) dashboard.Widget {
	category := dashboard.RelatedCategoryField
	if cmd.Variable {
		category = dashboard.RelatedCategoryVariable
	}
	related := make([]dashboard.RelatedView, 0, len(cmd.View))
	for _, view := range cmd.View {
		related = append(related, dashboard.RelatedView{ViewID: view, RelatedCategory: category, FieldValue: cmd.Field})
	}
	cfg := dashboard.ControllerConfig{
		ValueOptionType:  dashboard.ValueOptionCommon,
		ControllerValues: []any{},
		AssistViewFields: []string{cmd.View[0], cmd.Field},
	}
	if len(cmd.Custom) > 0 {
		cfg.ValueOptionType = dashboard.ValueOptionCustom
		cfg.AssistViewFields = nil
		for _, key := range cmd.Custom {
			cfg.ValueOptions = append(cfg.ValueOptions, dashboard.FilterValueOption{Key: key, Label: key})
		}
	}
	if facade.IsDate() {
		date := dashboard.ControllerDate{PickerType: dashboard.PickerDate, StartTime: dashboard.ExactBound("")}
		if facade == dashboard.FacadeRangeTime {
			end := dashboard.ExactBound("")
			date.EndTime = &end
		}
		cfg.ControllerDate = &date
	}
	name := cmd.Name
	if name == "" {
		name = strings.ReplaceAll(strcase.ToSnake(cmd.ID), "_", " ")
	}
	return dashboard.Widget{
		ID:          cmd.ID,
		DashboardID: boardID,
		Config: dashboard.WidgetConfig{
			Type: dashboard.WidgetKindController,
			Name: name,
			Content: dashboard.ControllerContent{
				Type:         facade,
				Name:         name,
				RelatedViews: related,
				Config:       cfg,
			},
		},
	}
}

// widgetMap goes through the widget JSON codec so the manifest holds the
// same shape the decoder reads back.
func widgetMap(widget dashboard.Widget) (map[string]any, error) {
	data, err := json.Marshal(widget)
	if err != nil {
		return nil, fmt.Errorf("boardctl: encode widget %s: %w", widget.ID, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("boardctl: encode widget %s: %w", widget.ID, err)
	}
	delete(out, "updatedAt")
	return out, nil
}

func loadOrInitManifest(path, boardID string) (*dashboard.BoardManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if boardID == "" {
				return nil, errors.New("boardctl: --board is required to create a manifest")
			}
			return &dashboard.BoardManifest{
				Version: dashboard.ManifestVersion,
				Board:   boardID,
				Raw:     []map[string]any{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("boardctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.BoardManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("boardctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("boardctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("boardctl: write manifest: %w", err)
	}
	return nil
}
