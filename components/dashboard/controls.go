package dashboard

import (
	"context"
	"slices"
)

const (
	defaultSliderMin  = 1
	defaultSliderMax  = 100
	defaultSliderStep = 1
)

// ChangeFunc receives the raw value emitted by an input primitive.
type ChangeFunc func(ctx context.Context, value any) error

// ControlProps is the uniform {value, onChange, options?} contract shared by
// every input primitive.
type ControlProps struct {
	Name     string          `json:"name,omitempty"`
	Value    any             `json:"value"`
	Options  []ControlOption `json:"options,omitempty"`
	Required bool            `json:"required,omitempty"`
	OnChange ChangeFunc      `json:"-"`
}

// Control is one member of the fixed family of input adapters.
type Control interface {
	Facade() FacadeType
	Props() ControlProps
	bind(onChange ChangeFunc) Control
}

type SelectControl struct{ ControlProps }
type MultiSelectControl struct{ ControlProps }
type NumberControl struct{ ControlProps }
type RangeNumberControl struct{ ControlProps }
type TextControl struct{ ControlProps }

// SliderControl carries the resolved slider bounds.
type SliderControl struct {
	ControlProps
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Step      float64 `json:"step"`
	ShowMarks bool    `json:"showMarks"`
}

// RadioGroupControl draws options as radio buttons.
type RadioGroupControl struct {
	ControlProps
	ButtonType RadioButtonType `json:"radioButtonType"`
}

// TimeControl edits the start bound of a controller date.
type TimeControl struct {
	ControlProps
	PickerType PickerType `json:"pickerType"`
}

// RangeTimeControl edits both bounds of a controller date.
type RangeTimeControl struct {
	ControlProps
	PickerType PickerType `json:"pickerType"`
}

func (SelectControl) Facade() FacadeType      { return FacadeDropdownList }
func (MultiSelectControl) Facade() FacadeType { return FacadeMultiDropdownList }
func (NumberControl) Facade() FacadeType      { return FacadeValue }
func (RangeNumberControl) Facade() FacadeType { return FacadeRangeValue }
func (TextControl) Facade() FacadeType        { return FacadeText }
func (SliderControl) Facade() FacadeType      { return FacadeSlider }
func (RadioGroupControl) Facade() FacadeType  { return FacadeRadioGroup }
func (TimeControl) Facade() FacadeType        { return FacadeTime }
func (RangeTimeControl) Facade() FacadeType   { return FacadeRangeTime }

func (c SelectControl) Props() ControlProps      { return c.ControlProps }
func (c MultiSelectControl) Props() ControlProps { return c.ControlProps }
func (c NumberControl) Props() ControlProps      { return c.ControlProps }
func (c RangeNumberControl) Props() ControlProps { return c.ControlProps }
func (c TextControl) Props() ControlProps        { return c.ControlProps }
func (c SliderControl) Props() ControlProps      { return c.ControlProps }
func (c RadioGroupControl) Props() ControlProps  { return c.ControlProps }
func (c TimeControl) Props() ControlProps        { return c.ControlProps }
func (c RangeTimeControl) Props() ControlProps   { return c.ControlProps }

func (c SelectControl) bind(fn ChangeFunc) Control      { c.OnChange = fn; return c }
func (c MultiSelectControl) bind(fn ChangeFunc) Control { c.OnChange = fn; return c }
func (c NumberControl) bind(fn ChangeFunc) Control      { c.OnChange = fn; return c }
func (c RangeNumberControl) bind(fn ChangeFunc) Control { c.OnChange = fn; return c }
func (c TextControl) bind(fn ChangeFunc) Control        { c.OnChange = fn; return c }
func (c SliderControl) bind(fn ChangeFunc) Control      { c.OnChange = fn; return c }
func (c RadioGroupControl) bind(fn ChangeFunc) Control  { c.OnChange = fn; return c }
func (c TimeControl) bind(fn ChangeFunc) Control        { c.OnChange = fn; return c }
func (c RangeTimeControl) bind(fn ChangeFunc) Control   { c.OnChange = fn; return c }

// DeriveControlView selects the control for content.Type and computes its
// initial value from the controller values or from dateValues. It is pure:
// the same inputs always produce an equal control with no OnChange bound.
// ok is false for an unknown facade or a date facade without controllerDate.
func DeriveControlView(content ControllerContent, options []FilterValueOption, dateValues []string) (Control, bool) {
	facade, known := ParseFacadeType(string(content.Type))
	if !known {
		return nil, false
	}
	cfg := content.Config
	base := ControlProps{
		Name:     content.Name,
		Required: cfg.Required,
	}
	first := firstValue(cfg.ControllerValues)

	switch facade {
	case FacadeDropdownList:
		base.Value = first
		base.Options = ToControlOptions(options)
		return SelectControl{base}, true
	case FacadeMultiDropdownList:
		base.Value = valueList(cfg.ControllerValues)
		base.Options = ToControlOptions(options)
		return MultiSelectControl{base}, true
	case FacadeSlider:
		base.Value = first
		return sliderControl(base, cfg), true
	case FacadeValue:
		base.Value = first
		return NumberControl{base}, true
	case FacadeRangeValue:
		base.Value = valueList(cfg.ControllerValues)
		return RangeNumberControl{base}, true
	case FacadeText:
		base.Value = first
		return TextControl{base}, true
	case FacadeRadioGroup:
		base.Value = first
		base.Options = ToControlOptions(options)
		buttonType := cfg.RadioButtonType
		if buttonType == "" {
			buttonType = RadioButtonDefault
		}
		return RadioGroupControl{ControlProps: base, ButtonType: buttonType}, true
	case FacadeTime:
		if cfg.ControllerDate == nil {
			return nil, false
		}
		base.Value = firstString(dateValues)
		return TimeControl{ControlProps: base, PickerType: cfg.ControllerDate.PickerType}, true
	case FacadeRangeTime:
		if cfg.ControllerDate == nil {
			return nil, false
		}
		base.Value = slices.Clone(dateValues)
		return RangeTimeControl{ControlProps: base, PickerType: cfg.ControllerDate.PickerType}, true
	}
	return nil, false
}

func sliderControl(base ControlProps, cfg ControllerConfig) SliderControl {
	slider := SliderControl{
		ControlProps: base,
		Min:          defaultSliderMin,
		Max:          defaultSliderMax,
		Step:         defaultSliderStep,
	}
	if cfg.MinValue != nil {
		slider.Min = *cfg.MinValue
	}
	if cfg.MaxValue != nil {
		slider.Max = *cfg.MaxValue
	}
	if cfg.SliderConfig != nil {
		if cfg.SliderConfig.Step > 0 {
			slider.Step = cfg.SliderConfig.Step
		}
		slider.ShowMarks = cfg.SliderConfig.ShowMarks
	}
	return slider
}

func firstValue(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func firstString(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func valueList(values []any) []any {
	if values == nil {
		return []any{}
	}
	return slices.Clone(values)
}
