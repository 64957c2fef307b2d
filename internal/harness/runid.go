package harness

import "github.com/google/uuid"

// IDGenerator produces run identifiers for the result log.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable run ids (RFC 9562).
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
