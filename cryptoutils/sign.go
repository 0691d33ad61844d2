package cryptoutils

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

// SignHash signs a 32-byte message hash with a secp256k1 private key and
// returns the signature split into its r and s components.
func SignHash(key *ecdsa.PrivateKey, hash felt.Felt) (r, s felt.Felt, err error) {
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return felt.Zero, felt.Zero, fmt.Errorf("signing failed: %w", err)
	}

	// crypto.Sign returns [R || S || V]; the recovery byte is not part of
	// the attestation wire format.
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])
	return r, s, nil
}

// VerifyHash reports whether (r, s) is a valid secp256k1 signature over the
// message hash for the given public key.
func VerifyHash(pubkey *ecdsa.PublicKey, hash felt.Felt, r, s felt.Felt) bool {
	sig := make([]byte, 0, 64)
	sig = append(sig, r.Bytes()...)
	sig = append(sig, s.Bytes()...)
	return crypto.VerifySignature(crypto.FromECDSAPub(pubkey), hash.Bytes(), sig)
}
