package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates widget payloads before they are persisted.
type ConfigValidator interface {
	Validate(widget Widget) error
}

const controllerSchemaName = "controller"

// controllerContentSchema describes the persisted content of controller widgets.
const controllerContentSchema = `{
  "type": "object",
  "required": ["type", "config"],
  "properties": {
    "type": {"enum": ["dropdownList", "multiDropdownList", "slider", "value", "rangeValue", "text", "radioGroup", "rangeTime", "time"]},
    "relatedViews": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["viewId", "relatedCategory"],
        "properties": {
          "viewId": {"type": "string", "minLength": 1},
          "relatedCategory": {"enum": ["field", "variable"]},
          "fieldValue": {"type": "string"}
        }
      }
    },
    "config": {
      "type": "object",
      "properties": {
        "valueOptionType": {"enum": ["common", "custom", ""]},
        "valueOptions": {
          "type": ["array", "null"],
          "items": {"type": "object", "required": ["key", "label"]}
        },
        "controllerValues": {"type": ["array", "null"]},
        "sqlOperator": {"enum": ["IN", "NOT_IN", "EQ", "NE", "LIKE", "BETWEEN", "GT", "LT"]},
        "assistViewFields": {"type": "array", "items": {"type": "string"}, "maxItems": 2},
        "minValue": {"type": "number"},
        "maxValue": {"type": "number"},
        "sliderConfig": {
          "type": "object",
          "properties": {"step": {"type": "number", "minimum": 0}, "showMarks": {"type": "boolean"}}
        },
        "radioButtonType": {"enum": ["default", "button"]},
        "controllerDate": {
          "type": "object",
          "required": ["startTime"],
          "properties": {
            "startTime": {"$ref": "#/$defs/bound"},
            "endTime": {"$ref": "#/$defs/bound"}
          }
        }
      }
    }
  },
  "allOf": [
    {
      "if": {"properties": {"type": {"enum": ["time", "rangeTime"]}}},
      "then": {"properties": {"config": {"required": ["controllerDate"]}}}
    }
  ],
  "$defs": {
    "bound": {
      "type": "object",
      "required": ["relativeOrExact"],
      "properties": {
        "relativeOrExact": {"enum": ["relative", "exact"]},
        "exactValue": {"type": "string"},
        "relativeValue": {
          "type": "object",
          "required": ["amount", "unit"],
          "properties": {
            "amount": {"type": "integer"},
            "unit": {"enum": ["d", "w", "M", "Q", "y"]},
            "direction": {"enum": ["-", "+", ""]}
          }
        }
      }
    }
  }
}`

// JSONSchemaValidator compiles schemas once and validates controller content.
// Extra schemas registered per facade are applied after the base schema.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	sources  map[string][]byte
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		sources:  map[string][]byte{controllerSchemaName: []byte(controllerContentSchema)},
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// RegisterFacadeSchema adds a schema that content of facade must also satisfy.
func (v *JSONSchemaValidator) RegisterFacadeSchema(facade FacadeType, schema map[string]any) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("dashboard: marshal schema %s: %w", facade, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sources[string(facade)] = data
	delete(v.compiled, string(facade))
	return nil
}

// Validate checks controller widgets; other kinds pass through.
func (v *JSONSchemaValidator) Validate(widget Widget) error {
	content, ok := widget.ControllerContent()
	if !ok {
		return nil
	}
	content.Type = content.Type.Canonical()
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("dashboard: marshal controller %s: %w", widget.ID, err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("dashboard: normalize controller %s: %w", widget.ID, err)
	}
	for _, name := range []string{controllerSchemaName, string(content.Type)} {
		schema, err := v.schemaFor(name)
		if err != nil {
			return err
		}
		if schema == nil {
			continue
		}
		if err := schema.Validate(payload); err != nil {
			return fmt.Errorf("dashboard: controller %s failed validation: %w", widget.ID, err)
		}
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[name]
	source, hasSource := v.sources[name]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	if !hasSource {
		return nil, nil
	}
	compiler := jsonschema.NewCompiler()
	resource := strings.ReplaceAll(name, " ", "_") + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(Widget) error { return nil }
