package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T, protocol, action, target string, headers []Header, body []byte) Request {
	t.Helper()
	r, err := New(protocol, action, target, headers, body)
	require.NoError(t, err)
	return r
}

func TestFingerprintOfIsDeterministic(t *testing.T) {
	r1 := mustRequest(t, "test-proto", "fetch", "resource-123", nil, []byte("body"))
	r2 := mustRequest(t, "test-proto", "fetch", "resource-123", nil, []byte("body"))

	fp1, err := FingerprintOf(r1)
	require.NoError(t, err)
	fp2, err := FingerprintOf(r2)
	require.NoError(t, err)

	require.Equal(t, fp1, fp2)
}

func TestFingerprintOfIsSensitiveToHeaderOrder(t *testing.T) {
	r1 := mustRequest(t, "http", "GET", "/x", []Header{{Name: "X-First", Value: "1"}, {Name: "X-Second", Value: "2"}}, nil)
	r2 := mustRequest(t, "http", "GET", "/x", []Header{{Name: "X-Second", Value: "2"}, {Name: "X-First", Value: "1"}}, nil)

	fp1, err := FingerprintOf(r1)
	require.NoError(t, err)
	fp2, err := FingerprintOf(r2)
	require.NoError(t, err)

	require.NotEqual(t, fp1, fp2)
}

func TestFingerprintOfDistinguishesFieldBoundaries(t *testing.T) {
	// Without length-prefixed framing, "ab"+"c" could collide with "a"+"bc".
	r1 := mustRequest(t, "http", "ab", "c", nil, nil)
	r2 := mustRequest(t, "http", "a", "bc", nil, nil)

	fp1, err := FingerprintOf(r1)
	require.NoError(t, err)
	fp2, err := FingerprintOf(r2)
	require.NoError(t, err)

	require.NotEqual(t, fp1, fp2)
}

func TestFingerprintStringRoundTrip(t *testing.T) {
	r := mustRequest(t, "http", "GET", "/x", nil, nil)
	fp, err := FingerprintOf(r)
	require.NoError(t, err)

	parsed, err := ParseFingerprint(fp.String())
	require.NoError(t, err)
	require.Equal(t, fp, parsed)
}

func TestParseFingerprintRejectsWrongLength(t *testing.T) {
	_, err := ParseFingerprint("abcd")
	require.Error(t, err)
}
