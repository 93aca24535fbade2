// Package cassette holds the immutable recorded-interaction data model: a
// ResponseChunk, an Interaction (request + fingerprint + chunks), and a
// Cassette (an ordered collection of interactions with a fingerprint index).
package cassette

// ResponseChunk is one discrete piece of a recorded response, in the order
// it was produced by the live responder or replayed from a cassette.
type ResponseChunk struct {
	Data     []byte
	Sequence int
}
