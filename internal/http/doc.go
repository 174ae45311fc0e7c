// Package http provides the HTTP client used to talk to the catalog and to
// download cover art.
//
// The client sends a browser-like User-Agent, applies a request timeout and
// surfaces non-200 responses as *StatusError so callers can tell a missing
// page apart from a transport failure.
package http
