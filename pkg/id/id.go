// Package id generates time-sortable identifiers for journal records.
package id

import "github.com/oklog/ulid/v2"

// New returns a new ULID string. ULIDs sort lexicographically by creation
// time, which keeps journal rows naturally ordered.
func New() string {
	return ulid.Make().String()
}
