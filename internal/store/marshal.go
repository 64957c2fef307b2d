package store

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/roach88/siglist/internal/ir"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// marshalItems converts an item name list to canonical JSON TEXT.
func marshalItems(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := ir.MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

// unmarshalItems parses an item list stored by marshalItems.
func unmarshalItems(data string) ([]string, error) {
	items := []string{}
	if err := json.UnmarshalFromString(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}
