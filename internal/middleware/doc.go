// Package middleware provides HTTP middleware for the demo surface:
// request logging, Prometheus metrics, and gzip response compression.
package middleware
