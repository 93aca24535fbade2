package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
	"github.com/roach88/interposition/store"
)

func mustInteraction(t *testing.T, target string, chunkData ...string) cassette.Interaction {
	t.Helper()
	headers := []request.Header{{Name: "X-First", Value: "1"}, {Name: "X-Second", Value: "2"}}
	req, err := request.New("test-proto", "fetch", target, headers, []byte("body"))
	require.NoError(t, err)
	fp, err := request.FingerprintOf(req)
	require.NoError(t, err)

	chunks := make([]cassette.ResponseChunk, len(chunkData))
	for i, d := range chunkData {
		chunks[i] = cassette.ResponseChunk{Data: []byte(d), Sequence: i}
	}
	in, err := cassette.NewInteraction(req, fp, chunks)
	require.NoError(t, err)
	return in
}

func TestLoadStrictModeMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "missing.json"))

	_, err := s.Load()
	require.Error(t, err)
	var loadErr *store.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadCreateIfMissingReturnsEmptyCassette(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "missing.json"), WithCreateIfMissing(true))

	c, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "cassette.json"))

	in := mustInteraction(t, "resource-123", "hello", "world")
	c, err := cassette.New([]cassette.Interaction{in})
	require.NoError(t, err)

	require.NoError(t, s.Save(c))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, c.Interactions(), loaded.Interactions())
}

func TestLoadMalformedContentFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cassette.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := New(path)
	_, err := s.Load()
	require.Error(t, err)
	var loadErr *store.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestCreateIfMissingRoundTripAfterOneRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new", "cassette.json")
	s := New(path, WithCreateIfMissing(true))

	c, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())

	in := mustInteraction(t, "resource-123", "live-data")
	c, err = c.Append(in)
	require.NoError(t, err)
	require.NoError(t, s.Save(c))

	reloaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
}
