// Package indexer scans the photo library root into the SQLite index.
//
// Top-level directories become user albums; files directly under the root
// belong only to the synthetic all-photos collection; nested directory
// trees are recorded as folder groupings, which the catalog does not
// present. The indexer runs an initial scan at startup, rescans on a
// fixed interval, and rescans when the change notifier reports library
// mutations.
package indexer
