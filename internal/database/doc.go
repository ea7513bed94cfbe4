// Package database implements the library Store contract on a SQLite
// index of the photo library root.
//
// The index is rebuilt by internal/indexer and queried lazily: asset
// sources run COUNT and OFFSET queries per call instead of holding
// snapshots, so readers observe out-of-band mutations on their next call,
// which is the contract collections promise their consumers.
package database
