// Package repository implements the data access layer over MySQL.
// Sentinel errors defined here let handlers map failure modes onto
// HTTP statuses without string matching.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is outside the
// caller's visible scope. Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrNoClientProfile is returned when a create operation needs the
// caller's client profile and the calling identity has none linked.
// Handlers translate it to HTTP 400.
var ErrNoClientProfile = errors.New("Client profile not found for current user")
