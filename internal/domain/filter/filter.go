// Package filter models structured, backend-agnostic search filters.
// Repositories build them; the db layer compiles them into index query syntax.
package filter

import "fmt"

// MaxConditions bounds a single expression. Engine-built filters stay tiny;
// the cap guards against unbounded caller input.
const MaxConditions = 32

// Expression is a conjunction of conditions. Every condition must hold.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates an Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// MustExpression creates an Expression from known-good conditions and panics
// on violation. For engine-internal construction with compile-time-known shape.
func MustExpression(conditions ...Condition) Expression {
	e, err := NewExpression(conditions...)
	if err != nil {
		panic(err)
	}
	return e
}

// Conditions returns the conjunction members.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition is a single filter clause: either an exact tag match or a
// closed numeric range.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range, or nil for match conditions.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is an inclusive numeric interval [min, max].
type Range struct {
	min float64
	max float64
}

// NewRangeBounds validates and creates a Range.
func NewRangeBounds(minVal, maxVal float64) (Range, error) {
	if minVal > maxVal {
		return Range{}, fmt.Errorf("range min %g exceeds max %g", minVal, maxVal)
	}
	return Range{min: minVal, max: maxVal}, nil
}

// Min returns the inclusive lower bound.
func (r Range) Min() float64 { return r.min }

// Max returns the inclusive upper bound.
func (r Range) Max() float64 { return r.max }
