// internal/filter/compile_test.go
package filter

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNil(t *testing.T) {
	out, err := Compile(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCompileLeaves(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want func(t *testing.T, out types.RetrievalFilter)
	}{
		{
			name: "equals",
			expr: Equals("company", "Amazon"),
			want: func(t *testing.T, out types.RetrievalFilter) {
				member, ok := out.(*types.RetrievalFilterMemberEquals)
				require.True(t, ok)
				assert.Equal(t, "company", *member.Value.Key)
			},
		},
		{
			name: "greaterThanOrEquals",
			expr: GreaterThanOrEquals("year", 2022),
			want: func(t *testing.T, out types.RetrievalFilter) {
				member, ok := out.(*types.RetrievalFilterMemberGreaterThanOrEquals)
				require.True(t, ok)
				assert.Equal(t, "year", *member.Value.Key)
			},
		},
		{
			name: "lessThanOrEquals",
			expr: LessThanOrEquals("year", 2024),
			want: func(t *testing.T, out types.RetrievalFilter) {
				member, ok := out.(*types.RetrievalFilterMemberLessThanOrEquals)
				require.True(t, ok)
				assert.Equal(t, "year", *member.Value.Key)
			},
		},
		{
			name: "startsWith",
			expr: StartsWith("source_uri", "s3://reports/"),
			want: func(t *testing.T, out types.RetrievalFilter) {
				member, ok := out.(*types.RetrievalFilterMemberStartsWith)
				require.True(t, ok)
				assert.Equal(t, "source_uri", *member.Value.Key)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compile(tt.expr)
			require.NoError(t, err)
			tt.want(t, out)
		})
	}
}

func TestCompileNestedTree(t *testing.T) {
	expr := Criteria{Company: "Amazon", Years: []int{2023, 2024}}.Build()

	out, err := Compile(expr)
	require.NoError(t, err)

	and, ok := out.(*types.RetrievalFilterMemberAndAll)
	require.True(t, ok)
	require.Len(t, and.Value, 2)

	eq, ok := and.Value[0].(*types.RetrievalFilterMemberEquals)
	require.True(t, ok)
	assert.Equal(t, FieldCompany, *eq.Value.Key)

	or, ok := and.Value[1].(*types.RetrievalFilterMemberOrAll)
	require.True(t, ok)
	assert.Len(t, or.Value, 2)
}

func TestCompileRejectsShortLogicalNodes(t *testing.T) {
	_, err := Compile(AndAll{Operands: []Expression{Equals("year", 2023)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two operands")

	_, err = Compile(OrAll{Operands: nil})
	require.Error(t, err)
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	_, err := Compile(Condition{Field: "year", Op: Operator("near"), Value: 2023})
	require.Error(t, err)
}
