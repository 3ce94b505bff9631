package dashboard

import "slices"

// FieldCondition restricts one view column.
type FieldCondition struct {
	ControllerID string            `json:"controllerId"`
	Field        string            `json:"field"`
	Operator     FilterSQLOperator `json:"operator"`
	Values       []any             `json:"values"`
}

// FilterParams is everything a provider needs to filter one view.
type FilterParams struct {
	Conditions []FieldCondition `json:"conditions,omitempty"`
	Variables  map[string][]any `json:"variables,omitempty"`
}

// Empty reports whether no filter applies.
func (p FilterParams) Empty() bool {
	return len(p.Conditions) == 0 && len(p.Variables) == 0
}

// BuildFilterParams collects the filters that controllers apply to viewID.
// Field bindings become conditions and variable bindings become template
// variables. Controllers without a value contribute nothing.
func BuildFilterParams(controllers []Widget, viewID string, dates *DateRangeResolver) FilterParams {
	params := FilterParams{}
	for _, widget := range controllers {
		content, ok := widget.ControllerContent()
		if !ok {
			continue
		}
		values := controllerFilterValues(content, dates)
		if len(values) == 0 {
			continue
		}
		for _, view := range content.RelatedViews {
			if view.ViewID != viewID || view.FieldValue == "" {
				continue
			}
			switch view.RelatedCategory {
			case RelatedCategoryVariable:
				if params.Variables == nil {
					params.Variables = map[string][]any{}
				}
				params.Variables[view.FieldValue] = slices.Clone(values)
			default:
				params.Conditions = append(params.Conditions, FieldCondition{
					ControllerID: widget.ID,
					Field:        view.FieldValue,
					Operator:     filterOperator(content),
					Values:       slices.Clone(values),
				})
			}
		}
	}
	return params
}

func controllerFilterValues(content ControllerContent, dates *DateRangeResolver) []any {
	facade, _ := ParseFacadeType(string(content.Type))
	if !facade.IsDate() {
		return content.Config.ControllerValues
	}
	if content.Config.ControllerDate == nil {
		return nil
	}
	resolved := dates.Resolve(content.Config.ValueOptionType, *content.Config.ControllerDate)
	values := make([]any, 0, len(resolved))
	for _, v := range resolved {
		if v == "" {
			continue
		}
		values = append(values, v)
	}
	if facade == FacadeRangeTime && len(values) != 2 {
		return nil
	}
	return values
}

func filterOperator(content ControllerContent) FilterSQLOperator {
	if content.Config.SQLOperator != "" {
		return content.Config.SQLOperator
	}
	switch content.Type.Canonical() {
	case FacadeMultiDropdownList:
		return SQLOperatorIn
	case FacadeRangeValue, FacadeRangeTime:
		return SQLOperatorBetween
	case FacadeText:
		return SQLOperatorContain
	default:
		return SQLOperatorEqual
	}
}
