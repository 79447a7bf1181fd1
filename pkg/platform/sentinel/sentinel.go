package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in a store or external service
// - ErrUnavailable: external service or resource temporarily unavailable
// - ErrCircuitOpen: calls are short-circuited after repeated upstream failures
//
// For validation errors (bad input, malformed commands), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrCircuitOpen = errors.New("circuit open")
)
