package tablestore

import (
	"fmt"
	"strings"
)

// Eq builds a filter formula comparing a field to a value. Strings are
// quoted, numbers are not.
func Eq(field string, value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("{%s}='%s'", field, strings.ReplaceAll(v, "'", "\\'"))
	default:
		return fmt.Sprintf("{%s}=%v", field, v)
	}
}

// And combines filter formulas so all must hold.
func And(clauses ...string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "AND(" + strings.Join(clauses, ",") + ")"
}

// Or combines filter formulas so any may hold.
func Or(clauses ...string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "OR(" + strings.Join(clauses, ",") + ")"
}
