// Package harness provides golden-file test helpers for the reference JSON
// cassette format, so format drift in the persisted representation is
// caught by a diff instead of discovered at integration time.
package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/store/jsonstore"
)

// AssertCassetteGolden encodes c with the same routine store/jsonstore uses
// to persist a cassette, and compares the result against the checked-in
// golden file named name (under testdata/golden/<name>.golden). Run
// `go test ./... -update` to regenerate golden files after an intentional
// format change.
func AssertCassetteGolden(t *testing.T, name string, c cassette.Cassette) {
	t.Helper()

	data, err := jsonstore.Encode(c)
	if err != nil {
		t.Fatalf("harness: encode cassette: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
