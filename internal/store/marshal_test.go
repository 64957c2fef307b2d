package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalItems(t *testing.T) {
	data, err := marshalItems([]string{"b/y", "a/x"})
	require.NoError(t, err)
	assert.Equal(t, `["b/y","a/x"]`, data, "order is preserved")

	data, err = marshalItems(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, data)

	items, err := unmarshalItems(`["b/y","a/x"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"b/y", "a/x"}, items)

	_, err = unmarshalItems(`{`)
	assert.Error(t, err)
}
