// Package resolver models the on-chain resolver contract of the off-chain
// resolution protocol as a deterministic, in-process state machine.
//
// A resolve call with no hint (or a malformed one) fails with a structured
// OffchainResolvingError whose token payload names the domain being resolved
// and the currently advertised resolution endpoints. That failure is the
// protocol handshake: client libraries decode it, fetch a signed attestation
// from one of the endpoints, and re-invoke Resolve with the attestation as a
// 4-element hint. The contract then checks the hint's expiry against its
// clock, recomputes the chained message hash and verifies the signature
// against the public key fixed at construction.
//
// The contract also owns the mutable, administrator-gated set of endpoint
// URIs. Every mutation emits exactly one change-notification event through
// the configured sink, so external indexers can mirror the set by polling.
//
// All operations are serialized and atomic, mirroring the host chain's
// single-threaded transaction model.
package resolver
