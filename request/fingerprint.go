package request

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint is a fixed-width 256-bit content hash uniquely identifying a
// Request. Two requests match iff their fingerprints are bit-equal.
type Fingerprint [sha256.Size]byte

// Zero is the zero-value Fingerprint, never produced by FingerprintOf for a
// valid Request (SHA-256 of any input is never all-zero in practice, but
// Zero is reserved as a sentinel "absent" value for callers that need one).
var Zero Fingerprint

// String renders the fingerprint as lowercase hex, the canonical textual
// form used by the reference JSON cassette format.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes a lowercase-hex fingerprint produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: invalid hex: %w", err)
	}
	if len(b) != len(f) {
		return Fingerprint{}, fmt.Errorf("fingerprint: expected %d bytes, got %d", len(f), len(b))
	}
	copy(f[:], b)
	return f, nil
}

// FingerprintOf computes the deterministic fingerprint of r: the SHA-256
// digest of r's canonical serialization (canonicalize, below).
//
// Canonical serialization encodes fields in the fixed order protocol,
// action, target, headers, body, using length-prefixed framing so that no
// field's content can be mistaken for a separator. Header order is
// preserved verbatim — not sorted, folded, or deduplicated — because header
// order is part of request identity (some protocols encode meaning in
// header sequence, e.g. an Accept preference list).
func FingerprintOf(r Request) (Fingerprint, error) {
	if err := r.Validate(); err != nil {
		return Fingerprint{}, err
	}
	canonical := canonicalize(r)
	return sha256.Sum256(canonical), nil
}

func canonicalize(r Request) []byte {
	var buf []byte
	buf = appendField(buf, []byte(normalizeText(r.Protocol)))
	buf = appendField(buf, []byte(normalizeText(r.Action)))
	buf = appendField(buf, []byte(normalizeText(r.Target)))

	var headerBuf []byte
	headerBuf = appendUint32(headerBuf, uint32(len(r.Headers)))
	for _, h := range r.Headers {
		headerBuf = appendField(headerBuf, []byte(normalizeText(h.Name)))
		headerBuf = appendField(headerBuf, []byte(normalizeText(h.Value)))
	}
	buf = appendField(buf, headerBuf)

	buf = appendField(buf, r.Body)
	return buf
}

// normalizeText applies NFC Unicode normalization so that two requests
// which differ only in Unicode composition (e.g. combining characters vs.
// their precomposed form) fingerprint identically. Applied uniformly to
// every text field before framing.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// appendField writes a length-prefixed (uint32 big-endian) frame of b to buf.
// Length-prefixing is injective by construction: no byte sequence can be
// mistaken for a length, so distinct field contents never collide.
func appendField(buf, b []byte) []byte {
	buf = appendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func appendUint32(buf []byte, n uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], n)
	return append(buf, tmp[:]...)
}
