// Package request defines the protocol-agnostic request value interposition
// matches against, and the content-addressed fingerprint derived from it.
package request

import "fmt"

// Header is a single ordered name/value pair. Order within a Request's
// Headers slice is part of the request's identity — it is never sorted,
// folded, or deduplicated by this package.
type Header struct {
	Name  string
	Value string
}

// Request is an immutable, protocol-agnostic request value. Adapters
// (HTTP, SQL, gRPC, ...) are responsible for translating wire traffic into
// a Request; this package has no knowledge of any specific protocol.
type Request struct {
	Protocol string
	Action   string
	Target   string
	Headers  []Header
	Body     []byte
}

// New validates and constructs a Request. Protocol, Action, and Target must
// be non-empty; Headers and Body may be empty.
func New(protocol, action, target string, headers []Header, body []byte) (Request, error) {
	r := Request{
		Protocol: protocol,
		Action:   action,
		Target:   target,
		Headers:  append([]Header(nil), headers...),
		Body:     append([]byte(nil), body...),
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Validate reports whether r satisfies the required-field invariants.
// Protocol, Action, and Target must be non-empty.
func (r Request) Validate() error {
	switch {
	case r.Protocol == "":
		return fmt.Errorf("request: protocol must not be empty")
	case r.Action == "":
		return fmt.Errorf("request: action must not be empty")
	case r.Target == "":
		return fmt.Errorf("request: target must not be empty")
	}
	return nil
}

// Fingerprint returns the stable content-addressed fingerprint for r.
func (r Request) Fingerprint() (Fingerprint, error) {
	return FingerprintOf(r)
}
