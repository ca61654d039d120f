package grading

import "reflect"

// valuesEqual compares an actual result against an expected value. Numbers
// compare within tolerance when one is given, lists element-wise in order,
// maps by key set regardless of order. It never fails with an error;
// any mismatch yields false.
func valuesEqual(actual, expected any, tolerance float64) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if an, aok := asNumber(actual); aok {
		en, eok := asNumber(expected)
		if !eok {
			return false
		}
		if tolerance > 0 {
			diff := an - en
			if diff < 0 {
				diff = -diff
			}
			return diff <= tolerance
		}
		return an == en
	}

	if aList, aok := actual.([]any); aok {
		eList, eok := expected.([]any)
		if !eok || len(aList) != len(eList) {
			return false
		}
		for i := range aList {
			if !valuesEqual(aList[i], eList[i], tolerance) {
				return false
			}
		}
		return true
	}

	if aMap, aok := actual.(map[string]any); aok {
		eMap, eok := expected.(map[string]any)
		if !eok || len(aMap) != len(eMap) {
			return false
		}
		for key, av := range aMap {
			ev, present := eMap[key]
			if !present || !valuesEqual(av, ev, tolerance) {
				return false
			}
		}
		return true
	}

	if reflect.TypeOf(actual) != reflect.TypeOf(expected) {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

// matchesShape checks that value is a map containing every named key. A
// recognized type tag ("number", "string", "array", "object", "boolean")
// constrains the field's runtime kind; any other spec value is a literal the
// field must equal exactly.
func matchesShape(value any, shape map[string]any) bool {
	obj, ok := value.(map[string]any)
	if !ok || obj == nil {
		return false
	}

	for key, want := range shape {
		field, present := obj[key]
		if !present {
			return false
		}

		if tag, isString := want.(string); isString && isTypeTag(tag) {
			if runtimeKind(field) != tag {
				return false
			}
			continue
		}

		if !valuesEqual(field, want, 0) {
			return false
		}
	}
	return true
}

func isTypeTag(s string) bool {
	switch s {
	case "number", "string", "array", "object", "boolean":
		return true
	}
	return false
}

// runtimeKind maps a value to its JS-flavored type name. Lists count as
// "array", not "object".
func runtimeKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		if _, ok := asNumber(v); ok {
			return "number"
		}
		return ""
	}
}

// asNumber normalizes the numeric types the sandbox and JSON decoding
// produce to float64, matching JS number semantics
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
