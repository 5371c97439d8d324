// Package services holds the front-desk business logic: the gorm-backed
// occupation store, the tolerant occupation-API client, and the checkout
// preview/finalize flow built on top of them.
//
// The sentinel errors below are shared across the package so handlers can
// translate failure classes into HTTP statuses with errors.Is instead of
// matching message strings. Everything here is recoverable from the caller's
// point of view; nothing is fatal to the process.
package services

import "errors"

// ErrInvalidInput is returned for a bad or missing identifier, before any
// database or network call is made. Handlers translate it to HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when no matching record exists, for occupations in
// particular when neither the primary nor the fallback lookup yields an
// active occupation. Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed in the record's
// current state, e.g. finalizing an occupation that is no longer active.
// Handlers translate it to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrBackendUnavailable wraps transport or decode failures when talking to
// the occupation backend. The caller may simply retry. Handlers translate it
// to HTTP 502.
var ErrBackendUnavailable = errors.New("backend unavailable")
