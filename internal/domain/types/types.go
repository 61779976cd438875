// Package types contains common types used across the application
package types

// Tier is the coarse seniority classification used to calibrate both the
// daily score multiplier and the rating K-factor.
type Tier string

// Recognized tiers. The set is closed; anything else is unrecognized.
const (
	Junior Tier = "junior"
	Mid    Tier = "mid"
	Senior Tier = "senior"
)

// Tiers returns every recognized tier in seniority order.
func Tiers() []Tier {
	return []Tier{Junior, Mid, Senior}
}

// ParseTier maps a wire value to a Tier. Matching is exact: "Mid" or " mid"
// are unrecognized, as the caller sent them.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}

// Valid reports whether t is one of the recognized tiers.
func (t Tier) Valid() bool {
	switch t {
	case Junior, Mid, Senior:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t Tier) String() string { return string(t) }

// Table maps every tier to a calibration constant.
type Table map[Tier]float64

// Complete reports the first recognized tier missing from the table, if any.
func (tb Table) Complete() (Tier, bool) {
	for _, t := range Tiers() {
		if _, ok := tb[t]; !ok {
			return t, false
		}
	}
	return "", true
}

// Clone returns a copy of the table restricted to recognized tiers.
func (tb Table) Clone() Table {
	out := make(Table, len(tb))
	for t, v := range tb {
		if t.Valid() {
			out[t] = v
		}
	}
	return out
}

// FromStrings converts a string-keyed map (as produced by config decoding)
// into a Table. Unrecognized keys are returned separately so the caller can
// reject them.
func FromStrings(m map[string]float64) (Table, []string) {
	out := make(Table, len(m))
	var unknown []string
	for k, v := range m {
		t, ok := ParseTier(k)
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		out[t] = v
	}
	return out, unknown
}
