package interfaces

import "errors"

// Off-chain failure taxonomy. The gateway surfaces every failure as one of
// these typed errors; it never falls back to a silent default such as an
// all-zero address.
var (
	// ErrDomainNotFound means no mapping exists for the requested domain.
	// The gateway must not fabricate or sign a negative result.
	ErrDomainNotFound = errors.New("domain not found")

	// ErrAmbiguousMapping means the data source holds more than one row for
	// the same domain. This is treated as a data-integrity fault rather than
	// silently picking one of the rows.
	ErrAmbiguousMapping = errors.New("ambiguous domain mapping")

	// ErrCorruptMapping means the data source holds a value that cannot be
	// attested, e.g. one that is not a field element.
	ErrCorruptMapping = errors.New("corrupt domain mapping")

	// ErrUpstreamUnavailable means the external data source failed. The
	// caller should retry with backoff.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")

	// ErrSigningFailure indicates key or configuration corruption. Fatal:
	// no partial signature material is ever returned.
	ErrSigningFailure = errors.New("attestation signing failed")
)
