package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/siglist/internal/store"
)

func TestTrace_MissingDatabase(t *testing.T) {
	out, _, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "absent.db"), "run-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
}

func TestTrace_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(t, "trace", "--db", db, "run-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "no results for run run-1")
}

func TestTrace_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "trace", "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}
