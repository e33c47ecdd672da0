// Package uuid generates primary keys for database rows.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string. Keys created later sort after
// earlier ones, which keeps B-tree inserts local. If the random source
// fails it falls back to a random UUIDv4.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Version reports the UUID version of s, or 0 when s is not a UUID.
func Version(s string) int {
	id, err := googleuuid.Parse(s)
	if err != nil {
		return 0
	}
	return int(id.Version())
}
