// Package library defines the domain model of the photo library: assets,
// media kinds, album metadata, and the read-only asset source contract that
// collections hand to consumers.
//
// The library package owns no storage itself. The SQLite-backed index in
// internal/database implements the Store contract; tests substitute fakes.
package library
