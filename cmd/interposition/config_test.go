package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
	"github.com/roach88/interposition/store/sqlitestore"
)

func TestLoadConfigMissingFileReturnsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadConfigParsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_backend: sqlite\ncassette_path: /fixtures/default.db\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{DefaultBackend: "sqlite", CassettePath: "/fixtures/default.db"}, cfg)
}

// TestInspectCommandUsesConfigDefaultBackend pins down the bug the fix
// addresses: --backend's flag default must not shadow default_backend from
// a loaded config when the user never passes --backend explicitly.
func TestInspectCommandUsesConfigDefaultBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cassette.db")
	req, err := request.New("sql", "SELECT", "orders", nil, nil)
	require.NoError(t, err)
	fp, err := request.FingerprintOf(req)
	require.NoError(t, err)
	in, err := cassette.NewInteraction(req, fp, []cassette.ResponseChunk{{Data: []byte("row"), Sequence: 0}})
	require.NoError(t, err)
	c, err := cassette.New([]cassette.Interaction{in})
	require.NoError(t, err)
	require.NoError(t, sqlitestore.New(dbPath, sqlitestore.WithCreateIfMissing(true)).Save(c))

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("default_backend: sqlite\ncassette_path: "+dbPath+"\n"), 0o644))

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--config", configPath, "inspect"})

	// Without the fix, --backend's registered default ("json") wins over
	// the config, and inspect tries (and fails) to read the sqlite file as
	// JSON.
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "1 interaction(s)")
}

func TestInspectCommandUsesConfigDefaultPath(t *testing.T) {
	cassettePath := filepath.Join(t.TempDir(), "cassette.json")
	writeFixtureCassette(t, cassettePath)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("cassette_path: "+cassettePath+"\n"), 0o644))

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--config", configPath, "inspect"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "1 interaction(s)")
}
