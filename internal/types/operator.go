package types

import (
	"fmt"
	"strings"
)

// ComparisonOperator is a closed set of comparison operators used by segment
// rules. Rule definitions arrive as symbols (">=", "<", ...) and are resolved
// to an operator once at configuration load time, never re-parsed during
// scoring.
type ComparisonOperator string

const (
	OperatorGte ComparisonOperator = "gte"
	OperatorLte ComparisonOperator = "lte"
	OperatorGt  ComparisonOperator = "gt"
	OperatorLt  ComparisonOperator = "lt"
	OperatorEq  ComparisonOperator = "eq"
)

// ParseComparisonOperator resolves a symbolic or named operator into the
// closed enum. Both forms are accepted so stored configurations written as
// ">= 4" style rules keep working.
func ParseComparisonOperator(s string) (ComparisonOperator, error) {
	switch strings.TrimSpace(s) {
	case ">=", string(OperatorGte):
		return OperatorGte, nil
	case "<=", string(OperatorLte):
		return OperatorLte, nil
	case ">", string(OperatorGt):
		return OperatorGt, nil
	case "<", string(OperatorLt):
		return OperatorLt, nil
	case "=", "==", string(OperatorEq):
		return OperatorEq, nil
	default:
		return "", fmt.Errorf("unknown comparison operator: %q", s)
	}
}

// Evaluate applies the operator to a score and a threshold
func (op ComparisonOperator) Evaluate(score, threshold int) bool {
	switch op {
	case OperatorGte:
		return score >= threshold
	case OperatorLte:
		return score <= threshold
	case OperatorGt:
		return score > threshold
	case OperatorLt:
		return score < threshold
	case OperatorEq:
		return score == threshold
	default:
		return false
	}
}

func (op ComparisonOperator) Validate() error {
	switch op {
	case OperatorGte, OperatorLte, OperatorGt, OperatorLt, OperatorEq:
		return nil
	default:
		return fmt.Errorf("invalid comparison operator: %q", op)
	}
}
