package cryptoutils

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// signingKeyInfo domain-separates the HKDF expansion of the gateway signing
// key from any other key material derived from the same seed.
const signingKeyInfo = "offchain-resolution/signing-key/v1"

// LoadSigningKey parses a hex-encoded secp256k1 private key, with or without
// a 0x prefix.
func LoadSigningKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}
	return key, nil
}

// DeriveSigningKey deterministically derives a secp256k1 private key from a
// master seed of at least 32 bytes using HKDF. The same seed always yields
// the same key, so the on-chain public key stays stable across restarts.
func DeriveSigningKey(seed []byte) (*ecdsa.PrivateKey, error) {
	if len(seed) < 32 {
		return nil, errors.New("signing seed must be at least 32 bytes")
	}

	reader := hkdf.New(sha3.New256, seed, nil, []byte(signingKeyInfo))

	// Rejection-sample until the candidate is a valid scalar for the curve.
	for i := 0; i < 128; i++ {
		candidate := make([]byte, 32)
		if _, err := io.ReadFull(reader, candidate); err != nil {
			return nil, fmt.Errorf("hkdf expansion failed: %w", err)
		}

		key, err := crypto.ToECDSA(candidate)
		if err == nil {
			return key, nil
		}
	}
	return nil, errors.New("could not derive a valid signing key from seed")
}
