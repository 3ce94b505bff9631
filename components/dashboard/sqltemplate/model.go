package sqltemplate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

func init() {
	if !pongo2.FilterExists("sql") {
		pongo2.RegisterFilter("sql", filterSQL)
	}
}

// Model exposes filter params to templates. Every template variable is
// available by name as a list; "filters" holds the field conditions. Names
// with no value are simply undefined, which templates render as empty.
func Model(params dashboard.FilterParams) map[string]any {
	model := make(map[string]any, len(params.Variables)+1)
	for name, values := range params.Variables {
		model[name] = values
	}
	conditions := make([]map[string]any, 0, len(params.Conditions))
	for _, cond := range params.Conditions {
		conditions = append(conditions, map[string]any{
			"field":    cond.Field,
			"operator": string(cond.Operator),
			"values":   cond.Values,
		})
	}
	model["filters"] = conditions
	return model
}

// filterSQL renders a value (or list of values) as comma separated SQL literals:
//
//	region IN ({{ region|sql }})
func filterSQL(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(Literal(in.Interface())), nil
}

// Literal quotes v as a SQL literal. Slices become a comma separated list.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Literal(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, quote(item))
		}
		return strings.Join(parts, ", ")
	case string:
		return quote(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return quote(val.Format("2006-01-02 15:04:05"))
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
