package dashboard

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"
)

// ResolveValueOptions derives the selectable values of a controller.
//
// In common mode every scalar of rows becomes {key: v, label: v}. Rows may
// nest one more level (a cell holding a slice); order follows the rows and
// repeated values are kept. Custom mode returns custom verbatim. Any other
// mode yields an empty list.
func ResolveValueOptions(optionType ValueOptionType, custom []FilterValueOption, rows [][]any) []FilterValueOption {
	switch optionType {
	case ValueOptionCommon:
		options := make([]FilterValueOption, 0, len(rows))
		for _, row := range rows {
			for _, cell := range row {
				options = appendCellOptions(options, cell)
			}
		}
		return options
	case ValueOptionCustom:
		return slices.Clone(custom)
	default:
		return []FilterValueOption{}
	}
}

func appendCellOptions(options []FilterValueOption, cell any) []FilterValueOption {
	if isNestedSlice(cell) {
		rv := reflect.ValueOf(cell)
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if isNestedSlice(item) {
				continue
			}
			if key, ok := scalarKey(item); ok {
				options = append(options, FilterValueOption{Key: key, Label: key})
			}
		}
		return options
	}
	if key, ok := scalarKey(cell); ok {
		options = append(options, FilterValueOption{Key: key, Label: key})
	}
	return options
}

func isNestedSlice(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// scalarKey renders a row value as an option key. Nil and composite values
// produce no option.
func scalarKey(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	case time.Time:
		return val.Format(DateTimeLayout), true
	case fmt.Stringer:
		return val.String(), true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Struct, reflect.Pointer, reflect.Func, reflect.Chan:
		return "", false
	}
	return fmt.Sprint(v), true
}

// ToControlOptions adapts filter options to the input primitive contract.
func ToControlOptions(options []FilterValueOption) []ControlOption {
	out := make([]ControlOption, len(options))
	for i, opt := range options {
		out[i] = ControlOption{Value: opt.Key, Label: opt.Label}
	}
	return out
}
