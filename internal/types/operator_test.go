package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparisonOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected ComparisonOperator
	}{
		{">=", OperatorGte},
		{"<=", OperatorLte},
		{">", OperatorGt},
		{"<", OperatorLt},
		{"=", OperatorEq},
		{"==", OperatorEq},
		{"gte", OperatorGte},
		{"lte", OperatorLte},
		{"gt", OperatorGt},
		{"lt", OperatorLt},
		{"eq", OperatorEq},
		{" >= ", OperatorGte},
	}

	for _, tt := range tests {
		op, err := ParseComparisonOperator(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, op, "input %q", tt.input)
	}
}

func TestParseComparisonOperatorUnknown(t *testing.T) {
	for _, input := range []string{"", "!=", "between", ">>"} {
		_, err := ParseComparisonOperator(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestComparisonOperatorEvaluate(t *testing.T) {
	tests := []struct {
		op        ComparisonOperator
		score     int
		threshold int
		expected  bool
	}{
		{OperatorGte, 4, 4, true},
		{OperatorGte, 3, 4, false},
		{OperatorLte, 4, 4, true},
		{OperatorLte, 5, 4, false},
		{OperatorGt, 5, 4, true},
		{OperatorGt, 4, 4, false},
		{OperatorLt, 3, 4, true},
		{OperatorLt, 4, 4, false},
		{OperatorEq, 4, 4, true},
		{OperatorEq, 3, 4, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.op.Evaluate(tt.score, tt.threshold),
			"%s(%d, %d)", tt.op, tt.score, tt.threshold)
	}
}

func TestComparisonOperatorEvaluateUnknown(t *testing.T) {
	var op ComparisonOperator = "between"
	assert.False(t, op.Evaluate(4, 4))
}
