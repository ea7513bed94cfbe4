// Package handlers implements the HTTP surface: collection browsing,
// asset and thumbnail serving, the pick endpoint, and health reporting.
package handlers
