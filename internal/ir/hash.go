package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainQuery    = "siglist/query/v1"
	DomainScenario = "siglist/scenario/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a stable identity for a query description.
// Two handles whose query trees describe the same predicates, arguments and
// operators share a fingerprint regardless of cursor position.
func Fingerprint(description Object) (string, error) {
	canonical, err := MarshalCanonical(description)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// ScenarioHash computes a stable identity for a compiled scenario document.
func ScenarioHash(doc Object) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("ScenarioHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainScenario, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(description Object) string {
	fp, err := Fingerprint(description)
	if err != nil {
		panic(err)
	}
	return fp
}
