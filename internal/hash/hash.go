// Package hash computes stable digest keys for cache fingerprinting.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Of returns a stable hash digest for object, suitable for use as a cache
// key. Values implementing fmt.Stringer are keyed by their String()
// result as is, without hashing; everything else is gob-encoded and
// FNV-128a hashed, falling back to a spew dump when gob
// encoding fails (e.g. on NaN-sensitive or unexported-heavy structures).
func Of(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()

	if e := gob.NewEncoder(h).Encode(object); e == nil {
		return fmt.Sprintf("%x", h.Sum(nil))
	}

	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}
