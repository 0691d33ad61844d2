// Package api defines the JSON types of the gateway's HTTP surface.
package api

import (
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

// ResolveResponse is the success body of GET /resolve.
type ResolveResponse struct {
	// Address is the resolved value in compact hex.
	Address string `json:"address"`

	// R and S are the signature components in compact hex.
	R string `json:"r"`
	S string `json:"s"`

	// MaxValidity is the Unix timestamp the attestation expires at.
	MaxValidity uint64 `json:"max_validity"`
}

// NewResolveResponse converts an attestation into its JSON form.
func NewResolveResponse(att *interfaces.Attestation) ResolveResponse {
	return ResolveResponse{
		Address:     att.Value.Hex(),
		R:           att.R.Hex(),
		S:           att.S.Hex(),
		MaxValidity: att.MaxValidity,
	}
}

// Attestation parses the response back into an attestation.
func (r ResolveResponse) Attestation() (*interfaces.Attestation, error) {
	value, err := felt.FromHex(r.Address)
	if err != nil {
		return nil, err
	}
	sigR, err := felt.FromHex(r.R)
	if err != nil {
		return nil, err
	}
	sigS, err := felt.FromHex(r.S)
	if err != nil {
		return nil, err
	}

	return &interfaces.Attestation{
		Value:       value,
		R:           sigR,
		S:           sigS,
		MaxValidity: r.MaxValidity,
	}, nil
}

// ErrorResponse is the structured failure body of GET /resolve.
type ErrorResponse struct {
	Error string `json:"error"`
}
