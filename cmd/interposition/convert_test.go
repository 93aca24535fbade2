package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/interposition/store/sqlitestore"
)

func TestConvertCommandJSONToSQLite(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "cassette.json")
	writeFixtureCassette(t, srcPath)
	dstPath := filepath.Join(t.TempDir(), "cassette.db")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"convert", "--from", "json", "--to", "sqlite", srcPath, dstPath})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "converted 1 interaction(s)")

	converted, err := sqlitestore.New(dstPath).Load()
	require.NoError(t, err)
	require.Equal(t, 1, converted.Len())
}
