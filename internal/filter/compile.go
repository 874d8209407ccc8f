// internal/filter/compile.go
package filter

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// Compile lowers the predicate tree onto the retrieval API's filter union.
// A nil expression compiles to a nil filter (no constraint).
func Compile(expr Expression) (types.RetrievalFilter, error) {
	if expr == nil {
		return nil, nil
	}

	switch e := expr.(type) {
	case Condition:
		attr := types.FilterAttribute{
			Key:   aws.String(e.Field),
			Value: document.NewLazyDocument(e.Value),
		}
		switch e.Op {
		case OpEquals:
			return &types.RetrievalFilterMemberEquals{Value: attr}, nil
		case OpGreaterThanOrEquals:
			return &types.RetrievalFilterMemberGreaterThanOrEquals{Value: attr}, nil
		case OpLessThanOrEquals:
			return &types.RetrievalFilterMemberLessThanOrEquals{Value: attr}, nil
		case OpStartsWith:
			return &types.RetrievalFilterMemberStartsWith{Value: attr}, nil
		default:
			return nil, fmt.Errorf("unsupported operator %q", e.Op)
		}

	case AndAll:
		members, err := compileList(e.Operands)
		if err != nil {
			return nil, err
		}
		return &types.RetrievalFilterMemberAndAll{Value: members}, nil

	case OrAll:
		members, err := compileList(e.Operands)
		if err != nil {
			return nil, err
		}
		return &types.RetrievalFilterMemberOrAll{Value: members}, nil

	default:
		return nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

func compileList(ops []Expression) ([]types.RetrievalFilter, error) {
	if len(ops) < 2 {
		return nil, fmt.Errorf("logical nodes need at least two operands, got %d", len(ops))
	}
	members := make([]types.RetrievalFilter, 0, len(ops))
	for _, op := range ops {
		m, err := Compile(op)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}
