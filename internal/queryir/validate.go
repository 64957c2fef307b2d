package queryir

import (
	"fmt"

	"github.com/roach88/siglist/internal/argcodec"
	"github.com/roach88/siglist/internal/ir"
)

// ValidationResult lists the problems found in a query description.
type ValidationResult struct {
	// Valid is true when Errors is empty.
	Valid bool

	// Errors holds one message per problem, in tree order (left first).
	Errors []string
}

// Validate checks that a description is well formed:
//  1. no nil nodes
//  2. every Leaf names its predicate
//  3. every Leaf's Args agree with its Tags, one value per tag, of the
//     tag's kind, arrays holding at least the repeat count
//  4. every Composite carries a known Op
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{errors: []string{}}
	v.validateQuery(query, "$")

	return ValidationResult{
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

type validator struct {
	errors []string
}

func (v *validator) addError(path, format string, args ...any) {
	v.errors = append(v.errors, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query, path string) {
	switch query := q.(type) {
	case nil:
		v.addError(path, "nil query")
	case Static:
	case Leaf:
		v.validateLeaf(query, path)
	case Composite:
		if !query.Op.valid() {
			v.addError(path, "unknown op %q", query.Op)
		}
		v.validateQuery(query.Left, path+".left")
		v.validateQuery(query.Right, path+".right")
	default:
		v.addError(path, "unknown query type %T", q)
	}
}

func (v *validator) validateLeaf(leaf Leaf, path string) {
	if leaf.Predicate == "" {
		v.addError(path, "leaf has no predicate name")
	}

	tags, err := argcodec.ParseTags(leaf.Tags)
	if err != nil {
		v.addError(path, "%v", err)
		return
	}
	if len(tags) != len(leaf.Args) {
		v.addError(path, "tags %q describe %d arguments, have %d", leaf.Tags, len(tags), len(leaf.Args))
		return
	}
	for i, tag := range tags {
		arg := leaf.Args[i]
		if !tag.Array {
			if !kindMatches(tag.Kind, arg) {
				v.addError(path, "argument %d: tag %s does not accept %T", i, tag, arg)
			}
			continue
		}
		arr, ok := arg.(ir.Array)
		if !ok {
			v.addError(path, "argument %d: tag %s wants an array, got %T", i, tag, arg)
			continue
		}
		if len(arr) < tag.Count {
			v.addError(path, "argument %d: tag %s wants %d elements, got %d", i, tag, tag.Count, len(arr))
			continue
		}
		for j, elem := range arr[:tag.Count] {
			if !kindMatches(tag.Kind, elem) {
				v.addError(path, "argument %d[%d]: tag %s does not accept %T", i, j, tag, elem)
			}
		}
	}
}

func kindMatches(k argcodec.Kind, val ir.Value) bool {
	switch val.(type) {
	case ir.Int32:
		return k == argcodec.KindInt32
	case ir.Int64:
		return k == argcodec.KindInt64
	case ir.Char:
		return k == argcodec.KindChar
	case ir.String:
		return k == argcodec.KindString
	case ir.Ref:
		return k == argcodec.KindPointer
	}
	return false
}
