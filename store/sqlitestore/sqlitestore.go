// Package sqlitestore is an additional CassetteStore backend over SQLite,
// for test suites that already keep their fixtures inside a SQLite-backed
// database instead of loose files. It satisfies the identical
// store.CassetteStore port as jsonstore and the same missing-storage and
// corruption semantics; jsonstore remains the canonical human-readable
// reference store.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/request"
	"github.com/roach88/interposition/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	position    INTEGER NOT NULL,
	protocol    TEXT NOT NULL,
	action      TEXT NOT NULL,
	target      TEXT NOT NULL,
	headers     TEXT NOT NULL,
	body        BLOB NOT NULL,
	fingerprint TEXT NOT NULL,
	chunks      TEXT NOT NULL,
	PRIMARY KEY (position)
);
`

// Store is a SQLite-backed store.CassetteStore.
type Store struct {
	path            string
	createIfMissing bool
}

// Option configures a Store at construction.
type Option func(*Store)

// WithCreateIfMissing mirrors jsonstore.WithCreateIfMissing: in strict mode
// (the default), Load fails with a store.LoadError if the database file
// does not yet exist; with create-if-missing, Load returns an empty
// cassette and the database file (with schema) is created on first Save.
func WithCreateIfMissing(create bool) Option {
	return func(s *Store) { s.createIfMissing = create }
}

// New constructs a Store backed by the SQLite database file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Load returns the persisted cassette, ordered by stored position.
func (s *Store) Load() (cassette.Cassette, error) {
	if s.createIfMissing {
		if !fileExists(s.path) {
			return cassette.Empty(), nil
		}
	} else if !fileExists(s.path) {
		return cassette.Cassette{}, &store.LoadError{Cause: fmt.Errorf("database %q does not exist", s.path)}
	}

	db, err := s.open()
	if err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}

	rows, err := db.Query(`SELECT protocol, action, target, headers, body, fingerprint, chunks FROM interactions ORDER BY position ASC`)
	if err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}
	defer rows.Close()

	var interactions []cassette.Interaction
	for rows.Next() {
		var protocol, action, target, headersJSON, fingerprintHex, chunksJSON string
		var body []byte
		if err := rows.Scan(&protocol, &action, &target, &headersJSON, &body, &fingerprintHex, &chunksJSON); err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}

		headers, err := decodeHeaders(headersJSON)
		if err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}
		req, err := request.New(protocol, action, target, headers, body)
		if err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}
		fp, err := request.ParseFingerprint(fingerprintHex)
		if err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}
		chunks, err := decodeChunks(chunksJSON)
		if err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}

		in, err := cassette.NewInteraction(req, fp, chunks)
		if err != nil {
			return cassette.Cassette{}, &store.LoadError{Cause: err}
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}

	c, err := cassette.New(interactions)
	if err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}
	return c, nil
}

// Save persists c, overwriting any prior content. All deletes and inserts
// happen inside a single transaction for all-or-nothing persistence — the
// transactional equivalent of jsonstore's write-to-temp-then-rename.
func (s *Store) Save(c cassette.Cassette) error {
	db, err := s.open()
	if err != nil {
		return &store.SaveError{Cause: err}
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return &store.SaveError{Cause: err}
	}

	tx, err := db.Begin()
	if err != nil {
		return &store.SaveError{Cause: err}
	}

	if err := saveInTx(tx, c); err != nil {
		tx.Rollback()
		return &store.SaveError{Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &store.SaveError{Cause: err}
	}
	return nil
}

func saveInTx(tx *sql.Tx, c cassette.Cassette) error {
	if _, err := tx.Exec(`DELETE FROM interactions`); err != nil {
		return err
	}

	for pos, in := range c.Interactions() {
		headersJSON, err := encodeHeaders(in.Request.Headers)
		if err != nil {
			return err
		}
		chunksJSON, err := encodeChunks(in.ResponseChunks)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO interactions (position, protocol, action, target, headers, body, fingerprint, chunks)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			pos, in.Request.Protocol, in.Request.Action, in.Request.Target,
			headersJSON, in.Request.Body, in.Fingerprint.String(), chunksJSON,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
