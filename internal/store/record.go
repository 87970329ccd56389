package store

// Record is one row of an entity table as a generic field mapping.
// Lookups of absent fields report absence explicitly instead of
// failing; an empty Record is the "no row matched" convention.
type Record map[string]any

// Empty reports whether the record carries no fields (no row matched).
func (r Record) Empty() bool { return len(r) == 0 }

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Int64 returns the field as an integer. ok is false when the field is
// absent or not numeric.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Float64 returns the field as a float. ok is false when the field is
// absent or not numeric.
func (r Record) Float64(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the field as a string. ok is false when the field is
// absent or not textual.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}
