// Package transport performs the HTTP exchanges for baaskit.
//
// This package is internal to baaskit. It knows nothing about envelopes or
// error codes; it moves bytes and keeps session cookies.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with a cookie jar, optional rate limiting,
//     a default per-request timeout and a response size limit
//   - [Request]: a single outgoing exchange
//   - [Response]: status, body and latency of a completed exchange
//
// Users of the baaskit library should not need to interact with this
// package directly.
package transport
