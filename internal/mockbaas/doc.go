// Package mockbaas is an in-process stand-in for the backend.
//
// It implements every endpoint the SDK calls, speaks the same envelope,
// sets and clears session cookies, and validates input the way the real
// server does, returning VALIDATION_ERROR with per-field detail. State lives
// in a [MemoryStore].
//
// Tests mount [Server.Handler] in an httptest server; the mockserver command
// under example/ runs it standalone.
package mockbaas
