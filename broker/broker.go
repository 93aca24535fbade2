// Package broker implements the mode-driven dispatcher at the center of the
// interposition engine: it routes each request between an in-memory
// cassette, a user-provided live responder, and a user-provided persistence
// store.
package broker

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
	"github.com/roach88/interposition/store"
)

// Mode is the broker's fixed dispatch policy: a closed enumeration of three
// tags, not an open extension point.
type Mode string

const (
	// ModeReplay streams recorded chunks on a hit; fails on a miss. Never
	// calls the live responder.
	ModeReplay Mode = "replay"
	// ModeRecord always forwards to the live responder, even on a hit,
	// buffers the response, records it, persists, then streams it.
	ModeRecord Mode = "record"
	// ModeAuto streams recorded chunks on a hit (no upstream call); on a
	// miss it forwards, buffers, records, persists, then streams.
	ModeAuto Mode = "auto"
)

func (m Mode) valid() bool {
	switch m {
	case ModeReplay, ModeRecord, ModeAuto:
		return true
	default:
		return false
	}
}

// LiveResponder is the single-operation port a Broker forwards to when
// recording: given a request, it produces a finite ordered sequence of
// response chunks. Implementations may produce the sequence lazily, but it
// must be drainable to completion in finite time.
type LiveResponder func(request.Request) iter.Seq[cassette.ResponseChunk]

// Broker is the stateful dispatcher that serves Replay calls under a chosen
// Mode. Its only mutable state is the current cassette reference; every
// other field is immutable or externally owned. Concurrent use of a single
// Broker instance across goroutines is undefined — the broker is
// synchronous and single-threaded with respect to any one instance.
type Broker struct {
	cassette      cassette.Cassette
	mode          Mode
	liveResponder LiveResponder
	store         store.CassetteStore
	logger        *slog.Logger
}

// New constructs a Broker. If mode is record or auto and liveResponder is
// nil, construction fails immediately with a live-responder-required error
// — this is checked at construction, not deferred to the first request, so
// misconfiguration is caught at wiring time.
func New(c cassette.Cassette, mode Mode, liveResponder LiveResponder, cassetteStore store.CassetteStore, opts ...Option) (*Broker, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("interposition: invalid broker mode %q", mode)
	}
	if (mode == ModeRecord || mode == ModeAuto) && liveResponder == nil {
		return nil, &Error{Kind: KindLiveResponderRequired, Mode: mode}
	}

	b := &Broker{
		cassette:      c,
		mode:          mode,
		liveResponder: liveResponder,
		store:         cassetteStore,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// FromStore loads a cassette from cassetteStore and constructs a Broker
// with it. The load happens before any mode/responder validation the
// primary constructor performs.
func FromStore(cassetteStore store.CassetteStore, mode Mode, liveResponder LiveResponder, opts ...Option) (*Broker, error) {
	c, err := cassetteStore.Load()
	if err != nil {
		return nil, err
	}
	return New(c, mode, liveResponder, cassetteStore, opts...)
}

// Cassette returns the broker's current cassette value.
func (b *Broker) Cassette() cassette.Cassette {
	return b.cassette
}

// Mode returns the broker's dispatch mode.
func (b *Broker) Mode() Mode {
	return b.mode
}

// Replay is the broker's single request operation. It computes req's
// fingerprint exactly once, consults the current cassette's index, and
// dispatches according to Mode:
//
//	replay: hit streams recorded chunks; miss fails with interaction-not-found.
//	auto:   hit streams recorded chunks (no upstream call); miss forwards,
//	        buffers, records, persists, then streams.
//	record: always forwards (even on hit), buffers, records, persists, then
//	        streams.
//
// The returned iterator yields chunks in strictly increasing sequence
// order. All forwarding, buffering, recording, and persistence happen
// before Replay returns — a consumer that stops iterating early can never
// observe a partially recorded interaction, because the interaction was
// fully recorded and persisted before the iterator was even returned.
func (b *Broker) Replay(req request.Request) (iter.Seq[cassette.ResponseChunk], error) {
	fp, err := request.FingerprintOf(req)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("interposition: fingerprint computed", "fingerprint", fp.String())

	pos, hit := b.cassette.Find(fp)

	if hit && b.mode != ModeRecord {
		b.logger.Info("interposition: replay hit", "mode", b.mode, "fingerprint", fp.String())
		return chunksOf(b.cassette.Get(pos)), nil
	}

	if !hit && b.mode == ModeReplay {
		b.logger.Info("interposition: replay miss", "mode", b.mode, "fingerprint", fp.String())
		return nil, &Error{Kind: KindInteractionNotFound, Request: req}
	}

	// record mode always forwards (even on hit); auto mode forwards only
	// on miss. liveResponder is guaranteed non-nil here by the construction
	// invariant.
	return b.forwardRecordPersist(req, fp)
}

// forwardRecordPersist implements the record path: invoke the live
// responder and fully drain it, construct and append a new interaction,
// persist if a store is attached, and only then hand back an iterator over
// the buffered chunks. A save failure leaves the broker's cassette
// reference unchanged and surfaces a store.SaveError without yielding any
// chunk — the fail-fast contract.
func (b *Broker) forwardRecordPersist(req request.Request, fp request.Fingerprint) (iter.Seq[cassette.ResponseChunk], error) {
	var chunks []cassette.ResponseChunk
	for c := range b.liveResponder(req) {
		chunks = append(chunks, c)
	}

	interaction, err := cassette.NewInteraction(req, fp, chunks)
	if err != nil {
		return nil, err
	}

	extended, err := b.cassette.Append(interaction)
	if err != nil {
		return nil, err
	}

	if b.store != nil {
		if err := b.store.Save(extended); err != nil {
			// Fail-fast: caller sees the save error, broker's cassette
			// reverts to (is left at) the pre-append value.
			return nil, err
		}
	}

	b.cassette = extended
	b.logger.Info("interposition: interaction recorded", "mode", b.mode, "fingerprint", fp.String(), "chunks", len(chunks))

	return chunksOf(interaction), nil
}

func chunksOf(in cassette.Interaction) iter.Seq[cassette.ResponseChunk] {
	return func(yield func(cassette.ResponseChunk) bool) {
		for _, c := range in.ResponseChunks {
			if !yield(c) {
				return
			}
		}
	}
}
