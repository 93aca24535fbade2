package jsonstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
)

// wireCassette is the on-disk JSON shape described in the library's
// external-interfaces spec: an object with a single "interactions" array.
type wireCassette struct {
	Interactions []wireInteraction `json:"interactions"`
}

type wireInteraction struct {
	Request        wireRequest   `json:"request"`
	Fingerprint    string        `json:"fingerprint"`
	ResponseChunks []wireChunk   `json:"response_chunks"`
}

type wireRequest struct {
	Protocol string     `json:"protocol"`
	Action   string     `json:"action"`
	Target   string     `json:"target"`
	Headers  [][2]string `json:"headers"`
	Body     string     `json:"body"`
}

type wireChunk struct {
	Data     string `json:"data"`
	Sequence int    `json:"sequence"`
}

// Encode renders c in the reference JSON cassette format. It is exported
// for use by the harness package's golden-file tests, so a golden fixture
// compares against the exact bytes Save would persist.
func Encode(c cassette.Cassette) ([]byte, error) {
	return encode(c)
}

func encode(c cassette.Cassette) ([]byte, error) {
	wc := wireCassette{Interactions: make([]wireInteraction, 0, c.Len())}
	for _, in := range c.Interactions() {
		headers := make([][2]string, len(in.Request.Headers))
		for i, h := range in.Request.Headers {
			headers[i] = [2]string{h.Name, h.Value}
		}
		chunks := make([]wireChunk, len(in.ResponseChunks))
		for i, ch := range in.ResponseChunks {
			chunks[i] = wireChunk{
				Data:     base64.StdEncoding.EncodeToString(ch.Data),
				Sequence: ch.Sequence,
			}
		}
		wc.Interactions = append(wc.Interactions, wireInteraction{
			Request: wireRequest{
				Protocol: in.Request.Protocol,
				Action:   in.Request.Action,
				Target:   in.Request.Target,
				Headers:  headers,
				Body:     base64.StdEncoding.EncodeToString(in.Request.Body),
			},
			Fingerprint:    in.Fingerprint.String(),
			ResponseChunks: chunks,
		})
	}
	return json.MarshalIndent(wc, "", "  ")
}

func decode(data []byte) (cassette.Cassette, error) {
	var wc wireCassette
	if err := json.Unmarshal(data, &wc); err != nil {
		return cassette.Cassette{}, fmt.Errorf("decode cassette: %w", err)
	}

	interactions := make([]cassette.Interaction, 0, len(wc.Interactions))
	for i, wi := range wc.Interactions {
		body, err := base64.StdEncoding.DecodeString(wi.Request.Body)
		if err != nil {
			return cassette.Cassette{}, fmt.Errorf("decode interaction %d: request body: %w", i, err)
		}
		headers := make([]request.Header, len(wi.Request.Headers))
		for j, h := range wi.Request.Headers {
			headers[j] = request.Header{Name: h[0], Value: h[1]}
		}
		req, err := request.New(wi.Request.Protocol, wi.Request.Action, wi.Request.Target, headers, body)
		if err != nil {
			return cassette.Cassette{}, fmt.Errorf("decode interaction %d: request: %w", i, err)
		}

		fp, err := request.ParseFingerprint(wi.Fingerprint)
		if err != nil {
			return cassette.Cassette{}, fmt.Errorf("decode interaction %d: fingerprint: %w", i, err)
		}

		chunks := make([]cassette.ResponseChunk, len(wi.ResponseChunks))
		for j, wch := range wi.ResponseChunks {
			data, err := base64.StdEncoding.DecodeString(wch.Data)
			if err != nil {
				return cassette.Cassette{}, fmt.Errorf("decode interaction %d: chunk %d: %w", i, j, err)
			}
			chunks[j] = cassette.ResponseChunk{Data: data, Sequence: wch.Sequence}
		}

		in, err := cassette.NewInteraction(req, fp, chunks)
		if err != nil {
			return cassette.Cassette{}, fmt.Errorf("decode interaction %d: %w", i, err)
		}
		interactions = append(interactions, in)
	}

	c, err := cassette.New(interactions)
	if err != nil {
		return cassette.Cassette{}, fmt.Errorf("decode cassette: %w", err)
	}
	return c, nil
}
