// Package testutil provides deterministic helpers for tests.
package testutil

// DefaultRunID is returned by a FixedRunIDGenerator built with an empty ID.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run ID every time, so CLI output
// that embeds the run ID can be compared byte for byte.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed run ID generator. If id is empty,
// Generate returns DefaultRunID.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
