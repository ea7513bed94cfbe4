// Package catalog enumerates the selectable collections of the library.
//
// The catalog always begins with the synthetic all-photos collection,
// followed by user albums in the order the store returns them (newest
// asset ascending), then the predefined smart albums. Groupings that are
// currently empty are dropped, and groupings of a kind the picker does not
// present (nested folders) are logged and skipped without aborting the
// enumeration.
package catalog
