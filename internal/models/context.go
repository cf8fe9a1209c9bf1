package models

// Context is the heterogeneous situational data collected for one proposal.
// Upstream collectors populate it with loosely shaped values (a sentiment may
// be a bare float or a nested map), so all reads go through the coercion
// helpers below. The engine never mutates a Context.
type Context map[string]interface{}

// Float returns the value under key coerced to float64, with ok=false when
// the key is absent or not numeric.
func (c Context) Float(key string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	return coerceFloat(c[key])
}

// Map returns the value under key when it is a nested mapping.
func (c Context) Map(key string) (map[string]interface{}, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c[key].(map[string]interface{})
	return m, ok
}

// String returns the value under key coerced to a string.
func (c Context) String(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	s, ok := c[key].(string)
	return s, ok
}

// Slice returns the value under key when it is a list.
func (c Context) Slice(key string) ([]interface{}, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c[key].([]interface{})
	return s, ok
}

// coerceFloat converts the common numeric shapes that arrive from JSON
// decoding or upstream collectors into a float64.
func coerceFloat(v interface{}) (float64, bool) {
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
	default:
		return 0, false
	}
}

// CoerceFloat exposes the numeric coercion for other packages that normalize
// loosely typed rows (the backtest evaluator shares the same input problem).
func CoerceFloat(v interface{}) (float64, bool) {
	return coerceFloat(v)
}

// nestedFloat reads m[key] as a float, tolerating missing keys and wrong types.
func nestedFloat(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	return coerceFloat(m[key])
}

// NestedFloat reads a float out of a nested context mapping.
func NestedFloat(m map[string]interface{}, key string) (float64, bool) {
	return nestedFloat(m, key)
}
