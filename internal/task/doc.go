// Package task wraps asynchronous work in future-style values so call
// sites can await and join results instead of nesting callbacks.
//
// A Task settles at most once. Cancellation is explicit: Cancel stops the
// task's context, and All cancels outstanding siblings as soon as one task
// in the join fails, so a batch never runs longer than its first failure.
package task
