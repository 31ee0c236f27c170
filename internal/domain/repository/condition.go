package repository

import (
	"fmt"
	"strings"
)

type Op int

const (
	OpEq Op = iota
	OpNe
	OpIsNull
)

// Condition is a single column predicate. Conditions passed together are ANDed.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

func Ne(column string, value any) Condition {
	return Condition{Column: column, Op: OpNe, Value: value}
}

func IsNull(column string) Condition {
	return Condition{Column: column, Op: OpIsNull}
}

// whereClause renders conds with '?' bindvars; callers Rebind for the driver.
func whereClause(conds []Condition) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		switch c.Op {
		case OpEq:
			parts = append(parts, c.Column+" = ?")
			args = append(args, c.Value)
		case OpNe:
			parts = append(parts, c.Column+" <> ?")
			args = append(args, c.Value)
		case OpIsNull:
			parts = append(parts, c.Column+" IS NULL")
		default:
			panic(fmt.Sprintf("repository: unknown condition op %d", c.Op))
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}
