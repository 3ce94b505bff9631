package dashboard

import (
	"fmt"
	"reflect"
)

// FormSubmission is the payload emitted by a control form: {"value": ...}.
type FormSubmission struct {
	Value any `json:"value"`
}

// NormalizeValues turns a raw form value into the canonical controllerValues
// sequence. Sequences pass through, a single scalar is wrapped, and nil or ""
// yields an empty sequence. A non-sequence object is malformed.
func NormalizeValues(raw any) ([]any, error) {
	switch val := raw.(type) {
	case nil:
		return []any{}, nil
	case string:
		if val == "" {
			return []any{}, nil
		}
		return []any{val}, nil
	case []any:
		out := make([]any, len(val))
		copy(out, val)
		return out, nil
	case []byte:
		return []any{string(val)}, nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map, reflect.Struct:
		return nil, fmt.Errorf("%w: got %T", ErrMalformedSubmission, raw)
	case reflect.Pointer:
		if rv.IsNil() {
			return []any{}, nil
		}
		return NormalizeValues(rv.Elem().Interface())
	}
	return []any{raw}, nil
}

// NormalizeDate builds the next ControllerDate for a date facade. Affected
// bounds become exact literals; everything else in prior is kept.
func NormalizeDate(facade FacadeType, prior *ControllerDate, raw any) (ControllerDate, error) {
	if prior == nil {
		return ControllerDate{}, ErrMissingControllerDate
	}
	next := prior.Clone()
	switch facade {
	case FacadeTime:
		value, err := dateLiteral(raw)
		if err != nil {
			return ControllerDate{}, err
		}
		next.StartTime = ExactBound(value)
		return next, nil
	case FacadeRangeTime:
		values, err := dateLiterals(raw)
		if err != nil {
			return ControllerDate{}, err
		}
		next.StartTime = ExactBound(values[0])
		end := ExactBound(values[1])
		next.EndTime = &end
		return next, nil
	default:
		return ControllerDate{}, fmt.Errorf("%w: %s is not a date facade", ErrMalformedSubmission, facade)
	}
}

func dateLiteral(raw any) (string, error) {
	switch val := raw.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	}
	return "", fmt.Errorf("%w: date value must be a string, got %T", ErrMalformedSubmission, raw)
}

func dateLiterals(raw any) ([2]string, error) {
	var out [2]string
	if raw == nil {
		return out, nil
	}
	items, err := NormalizeValues(raw)
	if err != nil {
		return out, err
	}
	if _, scalar := raw.(string); scalar {
		return out, fmt.Errorf("%w: date range must be a sequence", ErrMalformedSubmission)
	}
	for i := 0; i < len(items) && i < len(out); i++ {
		value, err := dateLiteral(items[i])
		if err != nil {
			return out, err
		}
		out[i] = value
	}
	return out, nil
}
