package sqlitestore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
)

func encodeHeaders(headers []request.Header) (string, error) {
	pairs := make([][2]string, len(headers))
	for i, h := range headers {
		pairs[i] = [2]string{h.Name, h.Value}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode headers: %w", err)
	}
	return string(b), nil
}

func decodeHeaders(data string) ([]request.Header, error) {
	if data == "" {
		return nil, nil
	}
	var pairs [][2]string
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	headers := make([]request.Header, len(pairs))
	for i, p := range pairs {
		headers[i] = request.Header{Name: p[0], Value: p[1]}
	}
	return headers, nil
}

type wireChunk struct {
	Data     string `json:"data"`
	Sequence int    `json:"sequence"`
}

func encodeChunks(chunks []cassette.ResponseChunk) (string, error) {
	wire := make([]wireChunk, len(chunks))
	for i, c := range chunks {
		wire[i] = wireChunk{Data: base64.StdEncoding.EncodeToString(c.Data), Sequence: c.Sequence}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode chunks: %w", err)
	}
	return string(b), nil
}

func decodeChunks(data string) ([]cassette.ResponseChunk, error) {
	if data == "" {
		return nil, nil
	}
	var wire []wireChunk
	if err := json.Unmarshal([]byte(data), &wire); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}
	chunks := make([]cassette.ResponseChunk, len(wire))
	for i, w := range wire {
		data, err := base64.StdEncoding.DecodeString(w.Data)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %d data: %w", i, err)
		}
		chunks[i] = cassette.ResponseChunk{Data: data, Sequence: w.Sequence}
	}
	return chunks, nil
}
