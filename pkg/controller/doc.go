// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds permissive CORS headers and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context,
//     echoes the request ID in the response and logs access info.
//   - WithTimeout: Bounds a handler with http.TimeoutHandler and a typed,
//     per-request timeout body.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers under PprofPrefix.
//   - RequestID: Reads the request ID set by WithLogger.
//   - GetClientIP: Resolves the originating client address.
package controller
