package ir

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing a decoded predicate argument.
// Only Int32, Int64, Char, String, Ref and Array implement it.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// Int32 is a 32-bit integer argument (tag 'i').
type Int32 int32

func (Int32) irValue() {}

// Int64 is a 64-bit integer argument (tag 'h').
type Int64 int64

func (Int64) irValue() {}

// Char is a character argument (tag 'c'). Stored widened to 32 bits.
type Char int32

func (Char) irValue() {}

// String is a string argument (tag 's').
type String string

func (String) irValue() {}

// Ref is an opaque reference argument (tag 'v').
// The target is carried by value and never dereferenced by the codec.
type Ref struct {
	Target any
}

func (Ref) irValue() {}

// Array is the decoded form of an array-tagged argument ("i3", "s2", ...).
type Array []Value

func (Array) irValue() {}

// Object is a string-keyed map of values used for descriptions and
// fingerprints. Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// Bool is used in descriptions only; no argument tag produces it.
type Bool bool

func (Bool) irValue() {}

// TypeName returns a short, stable name for a reference target.
// Addresses are never used so descriptions stay deterministic.
func (r Ref) TypeName() string {
	if r.Target == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", r.Target)
}

// Equal reports whether two values are identical. Refs compare by target
// identity (==), never by the pointed-to contents.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, exists := bv[k]
			if !exists || !Equal(v, w) {
				return false
			}
		}
		return true
	case Ref:
		bv, ok := b.(Ref)
		return ok && av.Target == bv.Target
	default:
		return a == b
	}
}

// FromGo converts a plain Go value (as found in YAML or CUE documents) into
// a Value. Integers become Int64; slices become Arrays.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid argument")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int64(val), nil
	case int32:
		return Int32(val), nil
	case int64:
		return Int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int64(int64(val)), nil
	case bool:
		return Bool(val), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in arguments: %v", val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			irElem, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = irElem
		}
		return arr, nil
	case []string:
		arr := make(Array, len(val))
		for i, s := range val {
			arr[i] = String(s)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported argument type: %T", v)
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
