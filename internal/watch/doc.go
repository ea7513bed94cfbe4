// Package watch fans library-changed events out to registered observers.
//
// A Notifier coalesces raw filesystem events from the library root into
// coarse "something changed" signals; the event carries no detail, and
// consumers are expected to re-query the store wholesale. Delivery happens
// on a single dispatch goroutine, serialized with every other observer
// callback, so observers never need their own locking against each other.
//
// Observers subscribe with an explicit handle and are responsible for
// calling Unsubscribe on teardown. Once Unsubscribe returns, no further
// delivery to that handle begins.
package watch
