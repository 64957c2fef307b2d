package store

import (
	"context"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/ir"
	"github.com/roach88/siglist/internal/queryir"
	"github.com/roach88/siglist/internal/querysql"
)

func oracleCompiler() *querysql.SQLCompiler {
	c := querysql.NewSQLCompiler()
	c.Register("direction", func(args []ir.Value) (goqu.Expression, error) {
		d, err := querysql.IntArg(args, 0)
		if err != nil {
			return nil, err
		}
		if d == 'o' {
			return goqu.I(querysql.ColDirection).Eq("out"), nil
		}
		return goqu.I(querysql.ColDirection).Eq("in"), nil
	})
	c.Register("index_lt", func(args []ir.Value) (goqu.Expression, error) {
		n, err := querysql.IntArg(args, 0)
		if err != nil {
			return nil, err
		}
		return goqu.I(querysql.ColIndex).Lt(n), nil
	})
	return c
}

func TestSelect_CompiledQueries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteCatalog(ctx, testCatalog()))

	out := queryir.Leaf{Predicate: "direction", Tags: "c", Args: []ir.Value{ir.Char('o')}}
	low := queryir.Leaf{Predicate: "index_lt", Tags: "h", Args: []ir.Value{ir.Int64(4)}}

	tests := []struct {
		name  string
		query queryir.Query
		want  []string
	}{
		{
			name:  "leaf",
			query: queryir.Leaf{Source: queryir.Source{List: "signals"}, Predicate: out.Predicate, Tags: out.Tags, Args: out.Args},
			want:  []string{"synth/env", "ctl/knob", "ctl/pad"},
		},
		{
			name:  "start mid list",
			query: queryir.Static{Source: queryir.Source{List: "signals", Position: 3}},
			want:  []string{"ctl/knob", "ctl/pad"},
		},
		{
			name:  "device list",
			query: queryir.Composite{Source: queryir.Source{List: "synth"}, Op: queryir.OpUnion, Left: out, Right: low},
			want:  []string{"synth/freq", "synth/gain", "synth/env"},
		},
		{
			name:  "intersection",
			query: queryir.Composite{Source: queryir.Source{List: "signals"}, Op: queryir.OpIntersection, Left: out, Right: low},
			want:  []string{"synth/env", "ctl/knob"},
		},
		{
			name:  "difference",
			query: queryir.Composite{Source: queryir.Source{List: "signals"}, Op: queryir.OpDifference, Left: out, Right: low},
			want:  []string{"ctl/pad"},
		},
		{
			name:  "difference from static",
			query: queryir.Composite{Source: queryir.Source{List: "signals"}, Op: queryir.OpDifference, Left: queryir.Static{}, Right: out},
			want:  []string{"synth/freq", "synth/gain"},
		},
		{
			name:  "empty",
			query: queryir.Composite{Source: queryir.Source{List: "ctl"}, Op: queryir.OpDifference, Left: out, Right: out},
			want:  []string{},
		},
	}

	c := oracleCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := c.Compile(tt.query)
			require.NoError(t, err)

			got, err := s.Select(ctx, sql, params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_BadSQL(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Select(context.Background(), "SELECT nope FROM nowhere")
	assert.Error(t, err)
}
