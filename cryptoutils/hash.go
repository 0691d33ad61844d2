// Package cryptoutils implements the cryptographic primitives shared by the
// resolver contract model and the resolution gateway: the chained attestation
// message hash, secp256k1 signing and verification, and signing key loading.
//
// The signer and the verifier must compute byte-identical message hashes, so
// the fold lives here as a single pure function used literally by both sides.
package cryptoutils

import (
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

// ProtocolTag is the short-string token identifying the off-chain resolution
// protocol. It seeds the attestation message hash and leads the structured
// payload of a no-hint resolve failure.
var ProtocolTag = felt.MustFromShortString("offchain_resolving")

// FoldHash computes the attestation message hash as an ordered left fold of
// pairwise keccak256 over the fixed tuple:
//
//	h0 = K(tag        ‖ maxValidity)
//	h1 = K(h0         ‖ domainHash)
//	h2 = K(h1         ‖ field)
//	h3 = K(h2         ‖ value)
//
// The fold order is part of the wire contract. Reordering any step changes
// every valid signature.
func FoldHash(tag, maxValidity, domainHash, field, value felt.Felt) felt.Felt {
	h := felt.PairHash(tag, maxValidity)
	h = felt.PairHash(h, domainHash)
	h = felt.PairHash(h, field)
	h = felt.PairHash(h, value)
	return h
}
