package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visibilityContent(rule *ControllerVisibility) ControllerContent {
	return ControllerContent{Type: FacadeDropdownList, Config: ControllerConfig{Visibility: rule}}
}

func lookupValues(values map[string][]any) func(string) ([]any, bool) {
	return func(id string) ([]any, bool) {
		v, ok := values[id]
		return v, ok
	}
}

func TestVisibilityDefaults(t *testing.T) {
	eval := NewVisibilityEvaluator()

	visible, err := eval.Visible(visibilityContent(nil), nil)
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = eval.Visible(visibilityContent(&ControllerVisibility{VisibilityType: VisibilityShow}), nil)
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = eval.Visible(visibilityContent(&ControllerVisibility{VisibilityType: VisibilityHide}), nil)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestVisibilityCondition(t *testing.T) {
	eval := NewVisibilityEvaluator()
	lookup := lookupValues(map[string][]any{"region": {"eu", "us"}})

	cases := []struct {
		name string
		cond VisibilityCondition
		want bool
	}{
		{name: "equal match", cond: VisibilityCondition{DependentControllerID: "region", Relation: "=", Value: "eu"}, want: true},
		{name: "equal miss", cond: VisibilityCondition{DependentControllerID: "region", Relation: "=", Value: "apac"}, want: false},
		{name: "not equal", cond: VisibilityCondition{DependentControllerID: "region", Relation: "!=", Value: "apac"}, want: true},
		{name: "expression", cond: VisibilityCondition{DependentControllerID: "region", Expression: "len(values) > 1"}, want: true},
		{name: "unknown dependency", cond: VisibilityCondition{DependentControllerID: "missing", Relation: "=", Value: "eu"}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond := tc.cond
			visible, err := eval.Visible(visibilityContent(&ControllerVisibility{
				VisibilityType: VisibilityConditional,
				Condition:      &cond,
			}), lookup)
			require.NoError(t, err)
			assert.Equal(t, tc.want, visible)
		})
	}
}

func TestVisibilityInvalidExpressionStaysVisible(t *testing.T) {
	eval := NewVisibilityEvaluator()
	visible, err := eval.Visible(visibilityContent(&ControllerVisibility{
		VisibilityType: VisibilityConditional,
		Condition:      &VisibilityCondition{DependentControllerID: "region", Expression: "values +"},
	}), lookupValues(map[string][]any{"region": {"eu"}}))
	assert.Error(t, err)
	assert.True(t, visible)
}
