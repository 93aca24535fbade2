package cassette

import (
	"fmt"

	"github.com/roach88/interposition/request"
)

// Cassette is an immutable, ordered collection of Interactions plus a
// derived fingerprint index: a mapping from Fingerprint to the position of
// the first interaction carrying that fingerprint. The index is built once
// at construction and never mutated; Append produces a new Cassette with a
// freshly built index rather than mutating this one in place.
type Cassette struct {
	interactions []Interaction
	index        map[request.Fingerprint]int
}

// New validates and constructs a Cassette from an ordered slice of
// interactions, rejecting the whole cassette if any interaction's
// fingerprint does not match its request or its response chunk sequence is
// not contiguous. Interaction's fields are exported, so a caller can build
// one directly without going through NewInteraction; New re-validates every
// interaction itself rather than trusting that it already has.
func New(interactions []Interaction) (Cassette, error) {
	cp := make([]Interaction, len(interactions))
	for i, in := range interactions {
		validated, err := NewInteraction(in.Request, in.Fingerprint, in.ResponseChunks)
		if err != nil {
			return Cassette{}, fmt.Errorf("cassette: interaction %d: %w", i, err)
		}
		cp[i] = validated
	}
	return Cassette{
		interactions: cp,
		index:        buildIndex(cp),
	}, nil
}

// Empty returns a Cassette with no interactions.
func Empty() Cassette {
	return Cassette{index: make(map[request.Fingerprint]int)}
}

func buildIndex(interactions []Interaction) map[request.Fingerprint]int {
	index := make(map[request.Fingerprint]int, len(interactions))
	for i, in := range interactions {
		// First-match policy: only the earliest occurrence of a fingerprint
		// is kept reachable via Find. Later duplicates are only reachable
		// through Interactions().
		if _, exists := index[in.Fingerprint]; !exists {
			index[in.Fingerprint] = i
		}
	}
	return index
}

// Find returns the position of the first interaction whose fingerprint
// equals fp, and whether one was found.
func (c Cassette) Find(fp request.Fingerprint) (int, bool) {
	pos, ok := c.index[fp]
	return pos, ok
}

// Get returns the interaction at position pos.
func (c Cassette) Get(pos int) Interaction {
	return c.interactions[pos]
}

// Len returns the number of interactions in the cassette.
func (c Cassette) Len() int {
	return len(c.interactions)
}

// Interactions returns the cassette's interactions in insertion order.
// The returned slice is a copy; mutating it does not affect c.
func (c Cassette) Interactions() []Interaction {
	return append([]Interaction(nil), c.interactions...)
}

// Append validates interaction and returns a new Cassette with it appended
// at the end. If interaction's fingerprint already exists in the index, the
// index continues to point at the earlier occurrence (first-match policy)
// — the new interaction is still stored and reachable via
// Interactions/Get, just not via Find.
func (c Cassette) Append(interaction Interaction) (Cassette, error) {
	next := append(append([]Interaction(nil), c.interactions...), interaction)
	return New(next)
}
