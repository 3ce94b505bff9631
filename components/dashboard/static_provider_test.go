package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchSales(t *testing.T, req ViewRequest) ViewData {
	t.Helper()
	data, err := NewStaticProvider(salesView()).Fetch(context.Background(), req)
	require.NoError(t, err)
	return data
}

func TestStaticProviderOperators(t *testing.T) {
	cases := []struct {
		name string
		cond FieldCondition
		want []string
	}{
		{name: "in", cond: FieldCondition{Field: "region", Operator: SQLOperatorIn, Values: []any{"eu", "us"}}, want: []string{"eu", "us"}},
		{name: "not in", cond: FieldCondition{Field: "region", Operator: SQLOperatorNotIn, Values: []any{"eu"}}, want: []string{"us", "apac"}},
		{name: "like", cond: FieldCondition{Field: "region", Operator: SQLOperatorContain, Values: []any{"AP"}}, want: []string{"apac"}},
		{name: "greater", cond: FieldCondition{Field: "amount", Operator: SQLOperatorGreaterThan, Values: []any{9}}, want: []string{"eu", "us"}},
		{name: "less", cond: FieldCondition{Field: "amount", Operator: SQLOperatorLessThan, Values: []any{"10"}}, want: []string{"apac"}},
		{name: "between", cond: FieldCondition{Field: "amount", Operator: SQLOperatorBetween, Values: []any{5, 10}}, want: []string{"eu", "apac"}},
		{name: "no values", cond: FieldCondition{Field: "region", Operator: SQLOperatorEqual}, want: []string{"eu", "us", "apac"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := fetchSales(t, ViewRequest{ViewID: "sales", Filters: FilterParams{Conditions: []FieldCondition{tc.cond}}})
			got := make([]string, 0, len(data.Rows))
			for _, v := range data.Column("region") {
				got = append(got, v.(string))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStaticProviderProjectsColumns(t *testing.T) {
	data := fetchSales(t, ViewRequest{ViewID: "sales", Columns: []string{"amount", "unknown"}})
	assert.Equal(t, []string{"amount", "unknown"}, data.Columns)
	assert.Equal(t, [][]any{{10, nil}, {20, nil}, {5, nil}}, data.Rows)
}

func TestStaticProviderUnknownConditionColumn(t *testing.T) {
	_, err := NewStaticProvider(salesView()).Fetch(context.Background(), ViewRequest{
		Filters: FilterParams{Conditions: []FieldCondition{{Field: "country", Operator: SQLOperatorEqual, Values: []any{"x"}}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column country")
}

func TestRegistryFallbackAndViews(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterStaticViews(reg, []ManifestView{salesView(), {ID: "inventory"}}))
	assert.Equal(t, []string{"inventory", "sales"}, reg.Views())

	_, ok := reg.Provider("orders")
	assert.False(t, ok)

	fallback := ProviderFunc(func(context.Context, ViewRequest) (ViewData, error) { return ViewData{}, nil })
	reg.SetFallback(fallback)
	_, ok = reg.Provider("orders")
	assert.True(t, ok)
	_, ok = reg.Provider("")
	assert.False(t, ok)

	assert.Error(t, reg.RegisterProvider("", fallback))
	assert.Error(t, reg.RegisterProvider("x", nil))
}
