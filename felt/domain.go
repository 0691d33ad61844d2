package felt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// labelRegex matches a single domain label: lowercase alphanumerics and
// hyphens, not starting or ending with a hyphen.
var labelRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ErrInvalidDomain is returned for malformed domain strings or labels.
var ErrInvalidDomain = errors.New("invalid domain")

// ParseDomainString splits a dotted domain string into its ordered labels
// and validates each one.
func ParseDomainString(domain string) ([]string, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidDomain)
	}

	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if !labelRegex.MatchString(label) {
			return nil, fmt.Errorf("%w: bad label %q", ErrInvalidDomain, label)
		}
		if len(label) > MaxShortStringLen {
			return nil, fmt.Errorf("%w: label %q exceeds %d bytes", ErrInvalidDomain, label, MaxShortStringLen)
		}
	}
	return labels, nil
}

// EncodeDomain packs ordered domain labels into field elements, one element
// per label.
func EncodeDomain(labels []string) ([]Felt, error) {
	encoded := make([]Felt, 0, len(labels))
	for _, label := range labels {
		f, err := FromShortString(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
		}
		encoded = append(encoded, f)
	}
	return encoded, nil
}

// DecodeDomain unpacks an encoded domain back into its dotted string form.
func DecodeDomain(domain []Felt) (string, error) {
	labels := make([]string, 0, len(domain))
	for _, f := range domain {
		label, err := f.ShortString()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidDomain, err)
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, "."), nil
}

// HashDomain computes the canonical domain hash: a left fold of keccak256
// over the encoded labels, seeded with the label count. Both the signing and
// the verifying side rely on this exact construction; reordering or reseeding
// it invalidates every signature.
func HashDomain(domain []Felt) Felt {
	h := FromUint64(uint64(len(domain)))
	for _, label := range domain {
		h = PairHash(h, label)
	}
	return h
}

// PairHash chains two field elements through keccak256. It is the primitive
// both the domain hash and the attestation message hash are folded with.
func PairHash(a, b Felt) Felt {
	digest := crypto.Keccak256(a[:], b[:])
	var f Felt
	copy(f[:], digest)
	return f
}
