package cassette

import (
	"fmt"

	"github.com/roach88/interposition/request"
)

// ValidationError reports a violated Interaction or Cassette invariant:
// a fingerprint that does not match its request, a non-contiguous chunk
// sequence, or an empty required field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("interposition: interaction validation failed: %s", e.Reason)
}

// Interaction is one recorded request together with its fingerprint and
// ordered response chunks. Interactions are immutable once constructed.
type Interaction struct {
	Request        request.Request
	Fingerprint    request.Fingerprint
	ResponseChunks []ResponseChunk
}

// NewInteraction validates and constructs an Interaction.
//
// Validation enforces:
//   - fingerprint == FingerprintOf(req)
//   - chunks is non-empty
//   - response chunk sequence numbers form the contiguous run 0..N-1, in
//     the order given
func NewInteraction(req request.Request, fp request.Fingerprint, chunks []ResponseChunk) (Interaction, error) {
	expected, err := request.FingerprintOf(req)
	if err != nil {
		return Interaction{}, err
	}
	if expected != fp {
		return Interaction{}, &ValidationError{Reason: fmt.Sprintf(
			"fingerprint does not match request: expected %s, got %s", expected, fp,
		)}
	}
	if len(chunks) == 0 {
		return Interaction{}, &ValidationError{Reason: "response chunks must not be empty"}
	}
	for i, c := range chunks {
		if c.Sequence != i {
			return Interaction{}, &ValidationError{Reason: fmt.Sprintf(
				"response chunks must be sequential with no gaps: chunk %d has sequence %d", i, c.Sequence,
			)}
		}
	}

	cp := make([]ResponseChunk, len(chunks))
	for i, c := range chunks {
		cp[i] = ResponseChunk{Data: append([]byte(nil), c.Data...), Sequence: c.Sequence}
	}

	return Interaction{
		Request:        req,
		Fingerprint:    fp,
		ResponseChunks: cp,
	}, nil
}
