// Package server exposes comparisons over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness check
//	POST /v1/compare         compare two page sources on the server's file system
//	GET  /v1/history         stored comparisons, newest first (cache enabled only)
//	GET  /v1/history/{id}    the DiffReport of one stored comparison
//
// Paths in compare requests are resolved on the server, so the server is
// meant to listen on loopback or behind an authenticating proxy.
package server
