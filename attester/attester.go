// Package attester implements attestation issuance for the resolution
// gateway. Given a domain it looks up the current mapping in the configured
// data source, computes the same chained message hash the resolver contract
// verifies, and signs a time-bounded attestation with the gateway's private
// key. The private key never leaves this process.
package attester

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jayrodri088/offchain-resolution-gateway/cryptoutils"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
	"github.com/Jayrodri088/offchain-resolution-gateway/metrics"
)

// DefaultResolveField is the field attested by default: the domain's
// network address.
const DefaultResolveField = "starknet"

// Config carries the immutable configuration of an Attester. It is built
// once at startup and treated as read-only for the process lifetime.
type Config struct {
	// ParentDomain is the suffix served by this gateway, e.g.
	// "notion.stark". Requests outside it are rejected.
	ParentDomain interfaces.DomainName

	// Field identifies the attribute being attested. Must match the field
	// the resolver contract is queried with.
	Field felt.Felt

	// ValidityWindow bounds how long an issued attestation stays fresh.
	// Short enough to limit the blast radius of a leaked signature, long
	// enough to tolerate chain confirmation latency.
	ValidityWindow time.Duration

	// Now overrides the time source. Defaults to time.Now.
	Now func() time.Time
}

// Attester issues signed attestations of domain mappings. It is stateless
// apart from its immutable configuration and safe for concurrent use.
type Attester struct {
	key    *ecdsa.PrivateKey
	source interfaces.DataSource
	cfg    Config
	log    *slog.Logger
}

// New creates an Attester with the given signing key, data source and
// configuration.
func New(key *ecdsa.PrivateKey, source interfaces.DataSource, cfg Config, log *slog.Logger) (*Attester, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}
	if cfg.ParentDomain == "" {
		return nil, errors.New("parent domain is required")
	}
	if cfg.ValidityWindow <= 0 {
		return nil, errors.New("validity window must be positive")
	}
	if cfg.Field.IsZero() {
		cfg.Field = felt.MustFromShortString(DefaultResolveField)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Attester{
		key:    key,
		source: source,
		cfg:    cfg,
		log:    log,
	}, nil
}

// PublicKey returns the public half of the gateway signing key, i.e. the key
// the resolver contract must be deployed with.
func (a *Attester) PublicKey() *ecdsa.PublicKey {
	return &a.key.PublicKey
}

// ResolveDomain looks up the mapping for a fully qualified domain and
// returns a signed attestation of it.
//
// Absent mappings fail with interfaces.ErrDomainNotFound and produce no
// signature. Malformed or out-of-zone domains fail with
// felt.ErrInvalidDomain. Data source failures propagate their taxonomy
// error. A signing failure never returns partial signature material.
func (a *Attester) ResolveDomain(ctx context.Context, domain string) (*interfaces.Attestation, error) {
	name, err := interfaces.NewDomainName(domain)
	if err != nil {
		return nil, err
	}

	label, err := name.SubdomainOf(a.cfg.ParentDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", felt.ErrInvalidDomain, err)
	}

	value, err := a.source.Lookup(ctx, label)
	if err != nil {
		metrics.UpstreamLookups.WithLabelValues(a.source.Name(), "error").Inc()
		a.log.Debug("Domain lookup failed", "domain", domain, "label", label, "err", err)
		return nil, err
	}
	metrics.UpstreamLookups.WithLabelValues(a.source.Name(), "ok").Inc()

	resolved, err := felt.FromHex(value)
	if err != nil {
		a.log.Error("Data source returned an unparseable value", "domain", domain, "value", value, "err", err)
		return nil, fmt.Errorf("%w: stored value for %q is not a field element", interfaces.ErrCorruptMapping, label)
	}

	maxValidity := uint64(a.cfg.Now().Add(a.cfg.ValidityWindow).Unix())

	encoded, err := name.Encode()
	if err != nil {
		return nil, err
	}

	messageHash := cryptoutils.FoldHash(
		cryptoutils.ProtocolTag,
		felt.FromUint64(maxValidity),
		felt.HashDomain(encoded),
		a.cfg.Field,
		resolved,
	)

	r, s, err := cryptoutils.SignHash(a.key, messageHash)
	if err != nil {
		a.log.Error("Attestation signing failed", "domain", domain, "err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSigningFailure, err)
	}

	a.log.Debug("Issued attestation",
		"domain", domain,
		"value", resolved.Hex(),
		"maxValidity", maxValidity)

	return &interfaces.Attestation{
		Value:       resolved,
		R:           r,
		S:           s,
		MaxValidity: maxValidity,
	}, nil
}
