package main

import (
	"fmt"

	"github.com/roach88/interposition/store"
	"github.com/roach88/interposition/store/jsonstore"
	"github.com/roach88/interposition/store/sqlitestore"
)

// argOrEmpty returns args[0] if present, else "" — used by subcommands
// whose positional path argument may be supplied instead via config.
func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// openStore resolves backend ("json" or "sqlite") and path into a
// store.CassetteStore. createIfMissing is false for reads (inspect,
// validate, convert's source) and true for convert's destination, so a
// conversion can target a path that does not exist yet.
func openStore(backend, path string, createIfMissing bool) (store.CassetteStore, error) {
	switch backend {
	case "", "json":
		return jsonstore.New(path, jsonstore.WithCreateIfMissing(createIfMissing)), nil
	case "sqlite":
		return sqlitestore.New(path, sqlitestore.WithCreateIfMissing(createIfMissing)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be \"json\" or \"sqlite\"", backend)
	}
}
