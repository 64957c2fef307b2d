package queryir

import "github.com/roach88/siglist/internal/ir"

// Query is a node of a query description tree.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Op names a set operation in a Composite.
type Op string

const (
	OpUnion        Op = "union"
	OpIntersection Op = "intersection"
	OpDifference   Op = "difference"
)

// ValidOps lists the set operations a Composite may carry.
var ValidOps = []Op{OpUnion, OpIntersection, OpDifference}

func (o Op) valid() bool {
	for _, v := range ValidOps {
		if o == v {
			return true
		}
	}
	return false
}

// Source identifies where a query starts walking.
//
// Origin references the payload of the first source item. List and
// Position are optional and filled by callers that group items into named
// lists (see MapSources); Position counts from the list head, starting at 0.
type Source struct {
	Origin   ir.Ref
	List     string
	Position int
}

// Resolved reports whether List has been attached.
func (s Source) Resolved() bool {
	return s.List != ""
}

// Static describes a plain list handle: every item from the origin to the
// end of the list, in list order.
type Static struct {
	Source Source
}

func (Static) queryNode() {}

// Leaf describes a predicate query.
//
// Semantics:
//
//	items of Source, from Origin on, for which Predicate(Args) holds
//
// Tags is the argument tag string the arguments were encoded with; Args
// holds one value per tag (arrays as ir.Array).
type Leaf struct {
	Source    Source
	Predicate string
	Tags      string
	Args      []ir.Value
}

func (Leaf) queryNode() {}

// Composite describes a set operation over two sub-queries.
//
// Semantics:
//
//	union:        left(x) || right(x)
//	intersection: left(x) && right(x)
//	difference:   left(x) && !right(x)
//
// evaluated for every item x of Source (the left operand's source). A
// Static child matches every item.
type Composite struct {
	Source Source
	Op     Op
	Left   Query
	Right  Query
}

func (Composite) queryNode() {}

// SourceOf returns the source of any query node.
func SourceOf(q Query) Source {
	switch n := q.(type) {
	case Static:
		return n.Source
	case Leaf:
		return n.Source
	case Composite:
		return n.Source
	}
	return Source{}
}
