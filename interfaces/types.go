// Package interfaces defines the shared types and component contracts of the
// off-chain resolution protocol without implementation details.
package interfaces

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

// HintLen is the number of field elements in a resolution hint:
// [value, r, s, maxValidity].
const HintLen = 4

// Attestation is a time-bounded signed claim that a domain currently
// resolves to Value. It is produced off-chain by the resolution gateway and
// verified by the resolver contract.
type Attestation struct {
	// Value is the resolved field element, e.g. the account address.
	Value felt.Felt

	// R and S are the secp256k1 signature components over the attestation
	// message hash.
	R felt.Felt
	S felt.Felt

	// MaxValidity is the Unix timestamp after which the attestation is no
	// longer accepted by the verifier.
	MaxValidity uint64
}

// Hint returns the attestation in positional hint order as consumed by the
// resolver contract: [value, r, s, maxValidity].
func (a *Attestation) Hint() []felt.Felt {
	return []felt.Felt{a.Value, a.R, a.S, felt.FromUint64(a.MaxValidity)}
}

// AttestationFromHint interprets a 4-element hint positionally.
func AttestationFromHint(hint []felt.Felt) (*Attestation, error) {
	if len(hint) != HintLen {
		return nil, fmt.Errorf("hint must have exactly %d elements, got %d", HintLen, len(hint))
	}

	maxValidity, err := hint[3].Uint64()
	if err != nil {
		return nil, fmt.Errorf("invalid max validity: %w", err)
	}

	return &Attestation{
		Value:       hint[0],
		R:           hint[1],
		S:           hint[2],
		MaxValidity: maxValidity,
	}, nil
}

// DomainName is a dotted domain string, e.g. "iris.notion.stark".
type DomainName string

// NewDomainName validates and normalizes a domain string.
func NewDomainName(domain string) (DomainName, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if _, err := felt.ParseDomainString(normalized); err != nil {
		return "", err
	}
	return DomainName(normalized), nil
}

// String returns the domain as a plain string.
func (d DomainName) String() string {
	return string(d)
}

// Labels returns the ordered labels of the domain.
func (d DomainName) Labels() []string {
	return strings.Split(string(d), ".")
}

// SubdomainOf strips the parent suffix and returns the remaining lookup key.
// It fails if the domain does not belong to the parent or equals it.
func (d DomainName) SubdomainOf(parent DomainName) (string, error) {
	suffix := "." + parent.String()
	if !strings.HasSuffix(d.String(), suffix) {
		return "", fmt.Errorf("domain %q is not under %q", d, parent)
	}

	key := strings.TrimSuffix(d.String(), suffix)
	if key == "" || strings.Contains(key, ".") {
		return "", errors.New("expected exactly one label under the parent domain")
	}
	return key, nil
}

// Encode packs the domain labels into field elements.
func (d DomainName) Encode() ([]felt.Felt, error) {
	return felt.EncodeDomain(d.Labels())
}
