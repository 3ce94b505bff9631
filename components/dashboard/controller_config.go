package dashboard

import (
	"slices"
	"strings"

	"github.com/ettle/strcase"
)

// FacadeType selects the input control a controller widget renders.
type FacadeType string

const (
	FacadeDropdownList      FacadeType = "dropdownList"
	FacadeMultiDropdownList FacadeType = "multiDropdownList"
	FacadeSlider            FacadeType = "slider"
	FacadeValue             FacadeType = "value"
	FacadeRangeValue        FacadeType = "rangeValue"
	FacadeText              FacadeType = "text"
	FacadeRadioGroup        FacadeType = "radioGroup"
	FacadeRangeTime         FacadeType = "rangeTime"
	FacadeTime              FacadeType = "time"
)

var facadeTypes = []FacadeType{
	FacadeDropdownList,
	FacadeMultiDropdownList,
	FacadeSlider,
	FacadeValue,
	FacadeRangeValue,
	FacadeText,
	FacadeRadioGroup,
	FacadeRangeTime,
	FacadeTime,
}

// FacadeTypes lists the supported facades in declaration order.
func FacadeTypes() []FacadeType {
	return slices.Clone(facadeTypes)
}

// ParseFacadeType accepts any casing of a facade name ("MultiDropdownList",
// "multi-dropdown-list", "multiDropdownList").
func ParseFacadeType(name string) (FacadeType, bool) {
	candidate := FacadeType(strcase.ToCamel(strings.TrimSpace(name)))
	for _, facade := range facadeTypes {
		if facade == candidate {
			return facade, true
		}
	}
	return "", false
}

// Canonical returns the declared spelling of a known facade and f unchanged
// otherwise.
func (f FacadeType) Canonical() FacadeType {
	if facade, ok := ParseFacadeType(string(f)); ok {
		return facade
	}
	return f
}

// IsDate reports whether the facade binds a ControllerDate instead of a value list.
func (f FacadeType) IsDate() bool {
	return f == FacadeTime || f == FacadeRangeTime
}

// ValueOptionType selects where selectable values come from.
type ValueOptionType string

const (
	ValueOptionCommon ValueOptionType = "common"
	ValueOptionCustom ValueOptionType = "custom"
)

// FilterSQLOperator is the comparison applied by dependents to the controller values.
type FilterSQLOperator string

const (
	SQLOperatorIn          FilterSQLOperator = "IN"
	SQLOperatorNotIn       FilterSQLOperator = "NOT_IN"
	SQLOperatorEqual       FilterSQLOperator = "EQ"
	SQLOperatorNotEqual    FilterSQLOperator = "NE"
	SQLOperatorContain     FilterSQLOperator = "LIKE"
	SQLOperatorBetween     FilterSQLOperator = "BETWEEN"
	SQLOperatorGreaterThan FilterSQLOperator = "GT"
	SQLOperatorLessThan    FilterSQLOperator = "LT"
)

// RelatedCategory tells how a controller binds to a view.
type RelatedCategory string

const (
	RelatedCategoryField    RelatedCategory = "field"
	RelatedCategoryVariable RelatedCategory = "variable"
)

// RelatedView binds a controller to a view column or a view template variable.
type RelatedView struct {
	ViewID          string          `json:"viewId"`
	RelatedCategory RelatedCategory `json:"relatedCategory"`
	FieldValue      string          `json:"fieldValue"`
}

// FilterValueOption is a selectable filter value. Key is canonical, Label is display text.
type FilterValueOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ControlOption is FilterValueOption adapted to the input primitive contract.
type ControlOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SliderConfig tunes the slider facade.
type SliderConfig struct {
	Step      float64 `json:"step,omitempty"`
	ShowMarks bool    `json:"showMarks,omitempty"`
}

// RadioButtonType chooses how radio options are drawn.
type RadioButtonType string

const (
	RadioButtonDefault RadioButtonType = "default"
	RadioButtonButton  RadioButtonType = "button"
)

// ControllerConfig is the persisted state of a controller widget.
// Exactly one of ControllerValues or ControllerDate is semantically active,
// as decided by the facade type.
type ControllerConfig struct {
	ValueOptionType  ValueOptionType       `json:"valueOptionType"`
	ValueOptions     []FilterValueOption   `json:"valueOptions"`
	ControllerValues []any                 `json:"controllerValues"`
	ControllerDate   *ControllerDate       `json:"controllerDate,omitempty"`
	SQLOperator      FilterSQLOperator     `json:"sqlOperator,omitempty"`
	AssistViewFields []string              `json:"assistViewFields,omitempty"`
	MinValue         *float64              `json:"minValue,omitempty"`
	MaxValue         *float64              `json:"maxValue,omitempty"`
	SliderConfig     *SliderConfig         `json:"sliderConfig,omitempty"`
	RadioButtonType  RadioButtonType       `json:"radioButtonType,omitempty"`
	Required         bool                  `json:"required,omitempty"`
	Visibility       *ControllerVisibility `json:"visibility,omitempty"`
}

// Clone deep-copies the config so derived widgets never share backing arrays.
func (c ControllerConfig) Clone() ControllerConfig {
	next := c
	next.ValueOptions = slices.Clone(c.ValueOptions)
	next.ControllerValues = slices.Clone(c.ControllerValues)
	next.AssistViewFields = slices.Clone(c.AssistViewFields)
	if c.ControllerDate != nil {
		date := c.ControllerDate.Clone()
		next.ControllerDate = &date
	}
	if c.MinValue != nil {
		v := *c.MinValue
		next.MinValue = &v
	}
	if c.MaxValue != nil {
		v := *c.MaxValue
		next.MaxValue = &v
	}
	if c.SliderConfig != nil {
		slider := *c.SliderConfig
		next.SliderConfig = &slider
	}
	if c.Visibility != nil {
		vis := c.Visibility.Clone()
		next.Visibility = &vis
	}
	return next
}

// AssistView returns the view id and column used to load "common" options.
func (c ControllerConfig) AssistView() (viewID, field string, ok bool) {
	if len(c.AssistViewFields) < 2 {
		return "", "", false
	}
	return c.AssistViewFields[0], c.AssistViewFields[1], c.AssistViewFields[0] != "" && c.AssistViewFields[1] != ""
}
