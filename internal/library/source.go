package library

import (
	"context"
	"errors"
)

// ErrIndexOutOfRange is returned by AssetAt when the requested index is at
// or beyond the source's current count.
var ErrIndexOutOfRange = errors.New("asset index out of range")

// AssetSource is a read-only, lazily counted view over an ordered sequence
// of assets. The underlying store mutates out-of-band, so the count may
// change between calls; callers hold no snapshot and must tolerate stale
// indices by re-fetching after a change notification.
type AssetSource interface {
	// Count returns the number of assets currently visible in the source.
	Count(ctx context.Context) (int, error)

	// AssetAt returns the asset at index i in the source's ordering.
	// It returns ErrIndexOutOfRange when i is negative or >= Count.
	AssetAt(ctx context.Context, i int) (Asset, error)
}
