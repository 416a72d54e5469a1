package piicrypt

import (
	"fmt"
	"strings"
)

// maxParamNumber is the PostgreSQL maximum parameter number.
const maxParamNumber = 65535

// isValidColumnName checks if a column name is safe for SQL interpolation.
// Must start with letter or underscore, followed by alphanumeric/underscore.
func isValidColumnName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == '_') {
				return false
			}
		}
	}
	return true
}

var sqlOperators = map[Op]string{
	OpEq:   "=",
	OpNe:   "<>",
	OpLike: "LIKE",
	OpGt:   ">",
	OpGte:  ">=",
	OpLt:   "<",
	OpLte:  "<=",
}

// SearchCondition holds a SQL WHERE clause fragment and its arguments.
type SearchCondition struct {
	SQL  string // SQL fragment like `("emailHash" = $1 AND "status" = $2)`
	Args []any  // Positional arguments in placeholder order
}

// ToSQL renders a predicate tree as a PostgreSQL WHERE fragment with
// positional parameters starting at paramOffset. Column names are quoted so
// camelCase columns keep their case.
//
// Run Rewrite first: ToSQL renders whatever operands the tree carries.
// A nil tree renders as TRUE (no filter); a nil child of And or Or returns
// ErrInvalidArgument.
//
// Example:
//
//	where, _ := cipher.RewriteEqualityPredicate(piicrypt.And{
//	    piicrypt.Eq("email", "alice@example.com"),
//	    piicrypt.Eq("status", "active"),
//	}, fields)
//	cond, _ := piicrypt.ToSQL(where, 1)
//	rows, _ := db.Query("SELECT id FROM users WHERE "+cond.SQL, cond.Args...)
func ToSQL(p Predicate, paramOffset int) (*SearchCondition, error) {
	if paramOffset < 1 || paramOffset > maxParamNumber {
		return nil, invalidArgument(fmt.Sprintf("paramOffset must be 1-%d", maxParamNumber))
	}
	b := &sqlBuilder{next: paramOffset}
	sql, err := b.render(p)
	if err != nil {
		return nil, err
	}
	return &SearchCondition{SQL: sql, Args: b.args}, nil
}

type sqlBuilder struct {
	next int
	args []any
}

func (b *sqlBuilder) placeholder(v any) (string, error) {
	if b.next > maxParamNumber {
		return "", invalidArgument("predicate exceeds PostgreSQL parameter limit")
	}
	ph := fmt.Sprintf("$%d", b.next)
	b.next++
	b.args = append(b.args, v)
	return ph, nil
}

func (b *sqlBuilder) render(p Predicate) (string, error) {
	switch node := p.(type) {
	case nil:
		return "TRUE", nil
	case And:
		return b.join(node, " AND ", "TRUE")
	case Or:
		return b.join(node, " OR ", "FALSE")
	case Condition:
		return b.condition(node)
	case *Condition:
		if node == nil {
			return "TRUE", nil
		}
		return b.condition(*node)
	default:
		return "", invalidArgument(fmt.Sprintf("unknown predicate node %T", p))
	}
}

func (b *sqlBuilder) join(children []Predicate, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for i, child := range children {
		if isNilPredicate(child) {
			return "", invalidArgument(fmt.Sprintf("child %d of a combinator is nil", i))
		}
		part, err := b.render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (b *sqlBuilder) condition(c Condition) (string, error) {
	if !isValidColumnName(c.Field) {
		return "", invalidArgument(fmt.Sprintf("invalid column name %q", c.Field))
	}
	column := `"` + c.Field + `"`

	if c.Op == OpIn {
		values, err := inValues(c.Field, c.Value)
		if err != nil {
			return "", err
		}
		if len(values) == 0 {
			return "FALSE", nil // Empty IN matches nothing
		}
		phs := make([]string, 0, len(values))
		for _, v := range values {
			ph, err := b.placeholder(v)
			if err != nil {
				return "", err
			}
			phs = append(phs, ph)
		}
		return fmt.Sprintf("%s IN (%s)", column, strings.Join(phs, ", ")), nil
	}

	op, ok := sqlOperators[c.Op]
	if !ok {
		return "", fmt.Errorf("%w: operator %q", ErrUnsupportedPredicate, c.Op)
	}
	if c.Value == nil {
		switch c.Op {
		case OpEq:
			return column + " IS NULL", nil
		case OpNe:
			return column + " IS NOT NULL", nil
		}
	}
	ph, err := b.placeholder(c.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", column, op, ph), nil
}

// inValues flattens the slice types an IN operand may hold.
func inValues(name string, v any) ([]any, error) {
	switch list := v.(type) {
	case []any:
		return list, nil
	case []string:
		return toAny(list), nil
	case []int:
		return toAny(list), nil
	case []int64:
		return toAny(list), nil
	default:
		return nil, invalidArgument(fmt.Sprintf("%s: in operand must be a list, got %T", name, v))
	}
}

func toAny[T any](list []T) []any {
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = v
	}
	return out
}
