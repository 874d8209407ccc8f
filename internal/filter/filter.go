// Package filter builds the boolean metadata predicate trees that constrain
// a vector search. A tree is leaves of {field, operator, value} combined by
// AndAll/OrAll nodes; it is constructed once, compiled for the retrieval
// request, and never mutated.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Operator is a supported leaf comparison.
type Operator string

const (
	OpEquals              Operator = "equals"
	OpGreaterThanOrEquals Operator = "greaterThanOrEquals"
	OpLessThanOrEquals    Operator = "lessThanOrEquals"
	OpStartsWith          Operator = "startsWith"
)

// Expression is a node in the predicate tree.
type Expression interface {
	isExpression()
}

// Condition is a leaf predicate on a single metadata attribute.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

func (Condition) isExpression() {}

// AndAll is satisfied when every operand is. The service requires at least
// two operands; use the bare operand instead of a one-element AndAll.
type AndAll struct {
	Operands []Expression
}

func (AndAll) isExpression() {}

// OrAll is satisfied when any operand is.
type OrAll struct {
	Operands []Expression
}

func (OrAll) isExpression() {}

// ---- leaf constructors ----

func Equals(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpEquals, Value: value}
}

func GreaterThanOrEquals(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpGreaterThanOrEquals, Value: value}
}

func LessThanOrEquals(field string, value interface{}) Condition {
	return Condition{Field: field, Op: OpLessThanOrEquals, Value: value}
}

func StartsWith(field string, value string) Condition {
	return Condition{Field: field, Op: OpStartsWith, Value: value}
}

// And combines expressions conjunctively, collapsing the degenerate cases:
// zero operands yield nil, a single operand is returned as-is.
func And(exprs ...Expression) Expression {
	ops := compact(exprs)
	switch len(ops) {
	case 0:
		return nil
	case 1:
		return ops[0]
	default:
		return AndAll{Operands: ops}
	}
}

// Or combines expressions disjunctively with the same collapsing rules.
func Or(exprs ...Expression) Expression {
	ops := compact(exprs)
	switch len(ops) {
	case 0:
		return nil
	case 1:
		return ops[0]
	default:
		return OrAll{Operands: ops}
	}
}

func compact(exprs []Expression) []Expression {
	out := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Fingerprint renders a canonical textual form of the tree, stable across
// runs, used as a cache-key component.
func Fingerprint(expr Expression) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case Condition:
		return fmt.Sprintf("%s:%s:%v", e.Field, e.Op, e.Value)
	case AndAll:
		return "and(" + fingerprintList(e.Operands) + ")"
	case OrAll:
		return "or(" + fingerprintList(e.Operands) + ")"
	default:
		return fmt.Sprintf("%#v", expr)
	}
}

func fingerprintList(ops []Expression) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, Fingerprint(op))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
