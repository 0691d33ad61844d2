package interfaces

import "context"

// Attester issues signed, time-bounded attestations of domain mappings.
type Attester interface {
	// ResolveDomain looks up a fully qualified domain and returns a signed
	// attestation of its current mapping.
	ResolveDomain(ctx context.Context, domain string) (*Attestation, error)
}
