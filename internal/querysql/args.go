package querysql

import (
	"fmt"

	"github.com/roach88/siglist/internal/ir"
)

// IntArg returns argument i as an integer. Int32, Int64 and Char values
// are accepted.
func IntArg(args []ir.Value, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("argument %d missing", i)
	}
	switch v := args[i].(type) {
	case ir.Int32:
		return int64(v), nil
	case ir.Int64:
		return int64(v), nil
	case ir.Char:
		return int64(v), nil
	}
	return 0, fmt.Errorf("argument %d: want integer, got %T", i, args[i])
}

// StringArg returns argument i as a string.
func StringArg(args []ir.Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("argument %d missing", i)
	}
	s, ok := args[i].(ir.String)
	if !ok {
		return "", fmt.Errorf("argument %d: want string, got %T", i, args[i])
	}
	return string(s), nil
}

// ArrayArg returns argument i as an array.
func ArrayArg(args []ir.Value, i int) (ir.Array, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("argument %d missing", i)
	}
	arr, ok := args[i].(ir.Array)
	if !ok {
		return nil, fmt.Errorf("argument %d: want array, got %T", i, args[i])
	}
	return arr, nil
}

// RefArg returns the target of reference argument i.
func RefArg(args []ir.Value, i int) (any, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("argument %d missing", i)
	}
	ref, ok := args[i].(ir.Ref)
	if !ok {
		return nil, fmt.Errorf("argument %d: want reference, got %T", i, args[i])
	}
	return ref.Target, nil
}
