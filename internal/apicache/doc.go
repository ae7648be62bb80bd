// Package apicache stores the client-side object APIs of a session keyed by
// their engine handle.
//
// The cache holds at most one entry per handle. Only the owning session
// writes to it; readers may run on any goroutine.
package apicache
