package piicrypt

import (
	"fmt"
	"strings"
)

// Op is a leaf comparison operator.
type Op string

// Operators understood by the rewriter and by ToSQL. Only OpEq and OpIn are
// answerable on a hashed field.
const (
	OpEq   Op = "eq"
	OpIn   Op = "in"
	OpNe   Op = "ne"
	OpLike Op = "like"
	OpGt   Op = "gt"
	OpGte  Op = "gte"
	OpLt   Op = "lt"
	OpLte  Op = "lte"
)

// Predicate is a node of a boolean filter tree: And, Or or Condition.
type Predicate interface {
	predicate()
}

// And matches when every child matches.
type And []Predicate

// Or matches when any child matches.
type Or []Predicate

// Condition is a leaf {Field, Op, Value}.
//
// Hashed marks a leaf produced by the rewriter: its Field is a hash column
// and its Value holds digests. Hashed leaves are never rewritten again, but
// the rewriter still checks that Field is a configured hash column and that
// every operand is a digest.
type Condition struct {
	Field  string
	Op     Op
	Value  any
	Hashed bool
}

func (And) predicate()       {}
func (Or) predicate()        {}
func (Condition) predicate() {}

// Eq builds an equality leaf.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// In builds a membership leaf.
func In(field string, values ...string) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

// HashedField describes how a logical field is stored for lookup.
type HashedField struct {
	// Column is the hash storage column, e.g. "emailHash".
	Column string
	// QueryContext is the context the stored digests were computed under.
	QueryContext string
	// Normalize canonicalizes operands before hashing. Defaults to NormalizeEmail.
	Normalize Normalizer
}

// FieldMap maps logical field names to their hashed storage.
type FieldMap map[string]HashedField

// EmailField describes an email field protected with ctxs.
func EmailField(column string, ctxs EmailContexts) HashedField {
	return HashedField{
		Column:       column,
		QueryContext: ctxs.Query,
		Normalize:    NormalizeEmail,
	}
}

// Rewriter turns plaintext equality and membership conditions on hashed
// fields into conditions on their digest columns. It is a pure tree
// transform: the input is never mutated and no I/O is performed.
type Rewriter struct {
	hasher  Hasher
	fields  FieldMap
	columns map[string]bool
}

// NewRewriter validates fields and returns a Rewriter.
func NewRewriter(hasher Hasher, fields FieldMap) (*Rewriter, error) {
	if hasher == nil {
		return nil, invalidArgument("hasher is required")
	}
	normalized := make(FieldMap, len(fields))
	columns := make(map[string]bool, len(fields))
	for name, f := range fields {
		if strings.TrimSpace(f.Column) == "" {
			return nil, invalidArgument(fmt.Sprintf("field %q has no hash column", name))
		}
		if strings.TrimSpace(f.QueryContext) == "" {
			return nil, invalidArgument(fmt.Sprintf("field %q has no query context", name))
		}
		if f.Normalize == nil {
			f.Normalize = NormalizeEmail
		}
		normalized[name] = f
		columns[f.Column] = true
	}
	return &Rewriter{hasher: hasher, fields: normalized, columns: columns}, nil
}

// RewriteEqualityPredicate rewrites p against fields using this cipher's hash key.
func (c *Cipher) RewriteEqualityPredicate(p Predicate, fields FieldMap) (Predicate, error) {
	r, err := NewRewriter(c, fields)
	if err != nil {
		return nil, err
	}
	return r.Rewrite(p)
}

// Rewrite walks p and returns a new tree in which:
//   - And/Or nodes are rebuilt from their rewritten children
//   - leaves on fields not in the map are returned unchanged
//   - eq on a hashed field becomes {Column, eq, digest}
//   - in on a hashed field becomes {Column, in, digests}, order preserved
//
// An empty in list or a non-string operand returns ErrInvalidArgument; any
// other operator on a hashed field returns ErrUnsupportedPredicate. A leaf
// already marked Hashed must name a mapped column and carry digests, and a nil
// child of And or Or is rejected; both return ErrInvalidArgument.
func (r *Rewriter) Rewrite(p Predicate) (Predicate, error) {
	switch node := p.(type) {
	case nil:
		return nil, nil
	case And:
		children, err := r.rewriteAll(node)
		if err != nil {
			return nil, err
		}
		return And(children), nil
	case Or:
		children, err := r.rewriteAll(node)
		if err != nil {
			return nil, err
		}
		return Or(children), nil
	case Condition:
		return r.rewriteCondition(node)
	case *Condition:
		if node == nil {
			return nil, nil
		}
		return r.rewriteCondition(*node)
	default:
		return nil, invalidArgument(fmt.Sprintf("unknown predicate node %T", p))
	}
}

func (r *Rewriter) rewriteAll(children []Predicate) ([]Predicate, error) {
	if children == nil {
		return nil, nil
	}
	out := make([]Predicate, 0, len(children))
	for i, child := range children {
		if isNilPredicate(child) {
			return nil, invalidArgument(fmt.Sprintf("child %d of a combinator is nil", i))
		}
		rewritten, err := r.Rewrite(child)
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten)
	}
	return out, nil
}

func (r *Rewriter) rewriteCondition(c Condition) (Predicate, error) {
	if c.Hashed {
		if err := r.checkHashed(c); err != nil {
			return nil, err
		}
		return c, nil
	}
	field, ok := r.fields[c.Field]
	if !ok {
		return c, nil
	}

	switch c.Op {
	case OpEq:
		s, ok := c.Value.(string)
		if !ok {
			return nil, invalidArgument(fmt.Sprintf("%s: eq operand must be a string, got %T", c.Field, c.Value))
		}
		digest, err := r.digest(c.Field, field, s)
		if err != nil {
			return nil, err
		}
		return Condition{Field: field.Column, Op: OpEq, Value: digest, Hashed: true}, nil

	case OpIn:
		values, err := stringList(c.Field, c.Value)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, invalidArgument(fmt.Sprintf("%s: in list is empty", c.Field))
		}
		digests := make([]string, 0, len(values))
		for _, v := range values {
			digest, err := r.digest(c.Field, field, v)
			if err != nil {
				return nil, err
			}
			digests = append(digests, digest)
		}
		return Condition{Field: field.Column, Op: OpIn, Value: digests, Hashed: true}, nil

	default:
		return nil, fmt.Errorf("%w: %q on hashed field %q", ErrUnsupportedPredicate, c.Op, c.Field)
	}
}

// checkHashed accepts a leaf marked Hashed only if it targets a configured
// hash column with eq or in over digests.
func (r *Rewriter) checkHashed(c Condition) error {
	if !r.columns[c.Field] {
		return invalidArgument(fmt.Sprintf("hashed condition on %q, which is not a hash column", c.Field))
	}
	switch c.Op {
	case OpEq:
		if s, ok := c.Value.(string); !ok || !IsDigest(s) {
			return invalidArgument(fmt.Sprintf("%s: hashed eq operand is not a digest", c.Field))
		}
	case OpIn:
		values, err := stringList(c.Field, c.Value)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return invalidArgument(fmt.Sprintf("%s: in list is empty", c.Field))
		}
		for i, v := range values {
			if !IsDigest(v) {
				return invalidArgument(fmt.Sprintf("%s: hashed in operand %d is not a digest", c.Field, i))
			}
		}
	default:
		return fmt.Errorf("%w: %q on hashed column %q", ErrUnsupportedPredicate, c.Op, c.Field)
	}
	return nil
}

// isNilPredicate reports a nil interface or a typed nil *Condition.
func isNilPredicate(p Predicate) bool {
	if p == nil {
		return true
	}
	c, ok := p.(*Condition)
	return ok && c == nil
}

func (r *Rewriter) digest(name string, field HashedField, value string) (string, error) {
	canonical := field.Normalize(value)
	if strings.TrimSpace(canonical) == "" {
		return "", invalidArgument(fmt.Sprintf("%s: operand is empty", name))
	}
	return r.hasher.Hash(canonical, field.QueryContext)
}

// stringList accepts []string or []any holding only strings.
func stringList(name string, v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, invalidArgument(fmt.Sprintf("%s: in operand %d must be a string, got %T", name, i, item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, invalidArgument(fmt.Sprintf("%s: in operand must be a list of strings, got %T", name, v))
	}
}
