package argcodec

import "github.com/roach88/siglist/internal/ir"

// Decode reads every argument of the buffer back into ir values, one per
// tag. Array tags decode to ir.Array. A buffer whose bytes do not line up
// exactly with its tags is rejected.
func Decode(b *Buffer) ([]ir.Value, error) {
	if b == nil {
		return nil, nil
	}

	args := b.Args()
	out := make([]ir.Value, 0, len(b.tags))
	for _, tag := range b.tags {
		if !tag.Array {
			out = append(out, readOne(args, tag.Kind))
			continue
		}
		arr := make(ir.Array, tag.Count)
		for i := range arr {
			arr[i] = readOne(args, tag.Kind)
		}
		out = append(out, arr)
	}

	if err := args.Err(); err != nil {
		return nil, err
	}
	if n := args.Remaining(); n != 0 {
		return nil, newError(ErrCodeTrailingBytes, b.TagString(), -1,
			"%d bytes left after the last argument", n)
	}
	return out, nil
}

func readOne(args *Args, k Kind) ir.Value {
	switch k {
	case KindInt32:
		return ir.Int32(args.Int32())
	case KindInt64:
		return ir.Int64(args.Int64())
	case KindChar:
		return ir.Char(args.Char())
	case KindString:
		return ir.String(args.String())
	default:
		return ir.Ref{Target: args.Pointer()}
	}
}
