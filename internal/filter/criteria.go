// internal/filter/criteria.go
package filter

import "sort"

// Metadata attribute names the ingestion sidecars use.
const (
	FieldCompany   = "company"
	FieldYear      = "year"
	FieldDocType   = "docType"
	FieldPage      = "page"
	FieldSourceURI = "source_uri"
)

// Criteria is the optional set of search constraints a caller supplies.
// Zero-valued fields impose no constraint.
type Criteria struct {
	Company   string
	Years     []int
	DocType   string
	PageMin   *int
	PageMax   *int
	URIPrefix string
}

// Build translates the criteria into a single predicate tree satisfied by a
// chunk iff every supplied criterion holds. Returns nil when no criterion
// is supplied.
//
// A year list becomes an OR-set of equality leaves, except that a
// contiguous run of three or more years collapses to a min/max range pair.
func (c Criteria) Build() Expression {
	var parts []Expression

	if c.Company != "" {
		parts = append(parts, Equals(FieldCompany, c.Company))
	}
	if expr := yearExpression(c.Years); expr != nil {
		parts = append(parts, expr)
	}
	if c.DocType != "" {
		parts = append(parts, Equals(FieldDocType, c.DocType))
	}
	if c.PageMin != nil {
		parts = append(parts, GreaterThanOrEquals(FieldPage, *c.PageMin))
	}
	if c.PageMax != nil {
		parts = append(parts, LessThanOrEquals(FieldPage, *c.PageMax))
	}
	if c.URIPrefix != "" {
		parts = append(parts, StartsWith(FieldSourceURI, c.URIPrefix))
	}

	return And(parts...)
}

func yearExpression(years []int) Expression {
	if len(years) == 0 {
		return nil
	}

	uniq := dedupeSorted(years)

	if len(uniq) == 1 {
		return Equals(FieldYear, uniq[0])
	}

	if len(uniq) >= 3 && isContiguous(uniq) {
		return And(
			GreaterThanOrEquals(FieldYear, uniq[0]),
			LessThanOrEquals(FieldYear, uniq[len(uniq)-1]),
		)
	}

	leaves := make([]Expression, 0, len(uniq))
	for _, y := range uniq {
		leaves = append(leaves, Equals(FieldYear, y))
	}
	return Or(leaves...)
}

func dedupeSorted(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

func isContiguous(sorted []int) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}
