package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID; records created later sort after earlier ones.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Valid reports whether s is a well-formed ULID, so handlers can reject
// garbage path parameters before touching a table.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
