package list

import "github.com/roach88/siglist/internal/argcodec"

// Predicate decides whether an item belongs to a query. args reads the
// query's encoded arguments in tag order; every call gets a fresh reader.
type Predicate[T any] interface {
	Match(args *argcodec.Args, item *T) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc[T any] func(args *argcodec.Args, item *T) bool

// Match calls f.
func (f PredicateFunc[T]) Match(args *argcodec.Args, item *T) bool {
	return f(args, item)
}

type namedPredicate[T any] struct {
	name string
	fn   PredicateFunc[T]
}

func (p namedPredicate[T]) Match(args *argcodec.Args, item *T) bool {
	return p.fn(args, item)
}

func (p namedPredicate[T]) Name() string {
	return p.name
}

// Named attaches a name to a predicate function. The name shows up in
// Describe output.
func Named[T any](name string, fn PredicateFunc[T]) Predicate[T] {
	return namedPredicate[T]{name: name, fn: fn}
}

func predicateName[T any](p Predicate[T]) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "anonymous"
}
