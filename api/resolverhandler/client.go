package resolverhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Jayrodri088/offchain-resolution-gateway/api"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
	"github.com/Jayrodri088/offchain-resolution-gateway/resolver"
)

// FetchAttestation requests a signed attestation for a domain from a single
// gateway endpoint. HTTP failure statuses are mapped back onto the off-chain
// error taxonomy.
func FetchAttestation(ctx context.Context, endpoint, domain string) (*interfaces.Attestation, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/resolve?domain=%s", strings.TrimSuffix(endpoint, "/"), url.QueryEscape(domain)),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrUpstreamUnavailable, err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read resolve response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		message := string(body)
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", interfaces.ErrDomainNotFound, message)
		case http.StatusBadGateway:
			return nil, fmt.Errorf("%w: %s", interfaces.ErrUpstreamUnavailable, message)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", felt.ErrInvalidDomain, message)
		default:
			return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, message)
		}
	}

	var resolveResp api.ResolveResponse
	if err := json.Unmarshal(body, &resolveResp); err != nil {
		return nil, fmt.Errorf("could not parse resolve response: %w", err)
	}
	return resolveResp.Attestation()
}

// ResolveWithContract runs the full off-chain resolution loop against a
// resolver contract: call it without a hint, decode the structured failure,
// fetch an attestation from each advertised endpoint in order, and re-invoke
// the contract with the first attestation obtained.
func ResolveWithContract(ctx context.Context, contract *resolver.Contract, domain string, field felt.Felt) (felt.Felt, error) {
	name, err := interfaces.NewDomainName(domain)
	if err != nil {
		return felt.Zero, err
	}
	encoded, err := name.Encode()
	if err != nil {
		return felt.Zero, err
	}

	_, err = contract.Resolve(encoded, field, nil)
	var offchain *resolver.OffchainResolvingError
	if !errors.As(err, &offchain) {
		return felt.Zero, fmt.Errorf("expected offchain resolving signal, got: %w", err)
	}

	if len(offchain.URIs) == 0 {
		return felt.Zero, errors.New("contract advertises no resolution endpoints")
	}

	var lastErr error
	for _, endpoint := range offchain.URIs {
		att, err := FetchAttestation(ctx, endpoint, domain)
		if err != nil {
			lastErr = err
			continue
		}
		return contract.Resolve(encoded, field, att.Hint())
	}
	return felt.Zero, fmt.Errorf("all resolution endpoints failed: %w", lastErr)
}
