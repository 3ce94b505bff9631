package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StaticProvider serves inline view rows and applies filter conditions in
// memory. Boards loaded from manifests without a database use it.
type StaticProvider struct {
	view ManifestView
}

// NewStaticProvider wraps an inline view.
func NewStaticProvider(view ManifestView) *StaticProvider {
	return &StaticProvider{view: view}
}

// RegisterStaticViews registers a StaticProvider for every inline view.
func RegisterStaticViews(reg *Registry, views []ManifestView) error {
	for _, view := range views {
		if err := reg.RegisterProvider(view.ID, NewStaticProvider(view)); err != nil {
			return err
		}
	}
	return nil
}

// Fetch returns the rows matching every condition, projected onto req.Columns.
func (p *StaticProvider) Fetch(_ context.Context, req ViewRequest) (ViewData, error) {
	for _, cond := range req.Filters.Conditions {
		if !slices.Contains(p.view.Columns, cond.Field) {
			return ViewData{}, fmt.Errorf("dashboard: view %s has no column %s", p.view.ID, cond.Field)
		}
	}
	rows := make([][]any, 0, len(p.view.Rows))
	for _, row := range p.view.Rows {
		if p.matches(row, req.Filters.Conditions) {
			rows = append(rows, row)
		}
	}
	if len(req.Columns) == 0 {
		return ViewData{Columns: slices.Clone(p.view.Columns), Rows: rows}, nil
	}
	data := ViewData{Columns: slices.Clone(req.Columns), Rows: make([][]any, 0, len(rows))}
	for _, row := range rows {
		projected := make([]any, 0, len(req.Columns))
		for _, col := range req.Columns {
			idx := slices.Index(p.view.Columns, col)
			if idx < 0 || idx >= len(row) {
				projected = append(projected, nil)
				continue
			}
			projected = append(projected, row[idx])
		}
		data.Rows = append(data.Rows, projected)
	}
	return data, nil
}

func (p *StaticProvider) matches(row []any, conds []FieldCondition) bool {
	for _, cond := range conds {
		idx := slices.Index(p.view.Columns, cond.Field)
		if idx < 0 || idx >= len(row) {
			return false
		}
		if !matchCondition(row[idx], cond) {
			return false
		}
	}
	return true
}

func matchCondition(cell any, cond FieldCondition) bool {
	if len(cond.Values) == 0 {
		return true
	}
	value, _ := scalarKey(cell)
	switch cond.Operator {
	case SQLOperatorIn, SQLOperatorEqual:
		return containsKey(cond.Values, value)
	case SQLOperatorNotIn, SQLOperatorNotEqual:
		return !containsKey(cond.Values, value)
	case SQLOperatorContain:
		needle, _ := scalarKey(cond.Values[0])
		return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
	case SQLOperatorGreaterThan:
		return compareKeys(value, cond.Values[0]) > 0
	case SQLOperatorLessThan:
		return compareKeys(value, cond.Values[0]) < 0
	case SQLOperatorBetween:
		if len(cond.Values) < 2 {
			return compareKeys(value, cond.Values[0]) >= 0
		}
		return compareKeys(value, cond.Values[0]) >= 0 && compareKeys(value, cond.Values[1]) <= 0
	}
	return true
}

func containsKey(values []any, key string) bool {
	for _, v := range values {
		if k, ok := scalarKey(v); ok && k == key {
			return true
		}
	}
	return false
}

// compareKeys compares numerically when both sides parse as numbers and
// lexically otherwise, which orders "2006-01-02 15:04:05" dates correctly.
func compareKeys(left string, right any) int {
	r, _ := scalarKey(right)
	lf, lerr := strconv.ParseFloat(left, 64)
	rf, rerr := strconv.ParseFloat(r, 64)
	if lerr == nil && rerr == nil {
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		}
		return 0
	}
	return strings.Compare(left, r)
}
