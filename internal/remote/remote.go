// Package remote produces the library side of a reconciliation. A Lister
// returns the complete set of identity keys known to the remote Immich
// library, either by scanning a locally synced library tree or by paging
// through the Immich search API.
//
// A listing must be complete for the library snapshot at call time: an
// incomplete listing could classify present files as missing and lead to
// erroneous deletion, so any failure aborts the whole reconciliation.
package remote

import (
	"context"
	"errors"
)

// ErrUnavailable marks a remote listing failure. It is fatal to the
// reconciliation that requested it.
var ErrUnavailable = errors.New("remote listing unavailable")

// Entry is one asset reported by the remote library.
type Entry struct {
	// IdentityKey is comparable with inventory.MediaFile.IdentityKey.
	IdentityKey string
	// Name is the original file name as the remote reports it.
	Name string
}

// Lister returns the complete remote inventory snapshot.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}
