// Package coerce converts decoded YAML scalars into typed hyperparameter
// values. YAML decoding into interface{} yields int for integral numbers and
// float64 otherwise, so a parameter written as "1" or "1.5" needs widening
// (or exactness-checked narrowing) before it reaches an estimator field.
package coerce

// ToFloat widens a numeric scalar to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToInt narrows a numeric scalar to int. Floats convert only when the value
// is exactly integral.
func ToInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// ToBool accepts only genuine booleans.
func ToBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
