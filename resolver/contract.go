package resolver

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Jayrodri088/offchain-resolution-gateway/cryptoutils"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
)

var (
	// ErrSignatureExpired is returned when a hint's max validity timestamp
	// is not strictly in the future of the contract clock.
	ErrSignatureExpired = errors.New("signature expired")

	// ErrInvalidSignature is returned when the hint signature does not
	// validate against the stored public key. Fatal for that hint.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrIndexOutOfRange is returned by RemoveURI for an invalid position.
	ErrIndexOutOfRange = errors.New("uri index out of range")

	// ErrUnauthorized is returned for URI mutations by a non-administrator.
	ErrUnauthorized = errors.New("caller is not the contract administrator")
)

// Clock returns the contract's notion of the current Unix timestamp. It
// models the verifying chain's block timestamp.
type Clock func() uint64

// WallClock is the default Clock backed by the system time.
func WallClock() uint64 {
	return uint64(time.Now().Unix())
}

// ContractConfig carries the immutable deployment parameters of a resolver
// contract instance.
type ContractConfig struct {
	// Pubkey is the attestation signing public key, fixed at deployment.
	Pubkey *ecdsa.PublicKey

	// Admin is the only address allowed to mutate the URI set.
	Admin common.Address

	// URIs is the initial endpoint set, possibly empty.
	URIs []string

	// Clock overrides the block timestamp source. Defaults to WallClock.
	Clock Clock

	// Events receives one change notification per URI mutation. Defaults
	// to a discarding sink.
	Events EventSink
}

// Contract is the in-process model of the resolver contract. All methods are
// serialized and atomic relative to each other.
type Contract struct {
	mu     sync.Mutex
	pubkey *ecdsa.PublicKey
	admin  common.Address
	uris   []string
	clock  Clock
	events EventSink
}

// NewContract deploys a contract instance with the given configuration.
func NewContract(cfg ContractConfig) (*Contract, error) {
	if cfg.Pubkey == nil {
		return nil, errors.New("signing public key is required")
	}
	for _, uri := range cfg.URIs {
		if _, err := felt.EncodeLongString(uri); err != nil {
			return nil, fmt.Errorf("invalid uri %q: %w", uri, err)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = WallClock
	}
	events := cfg.Events
	if events == nil {
		events = discardSink{}
	}

	return &Contract{
		pubkey: cfg.Pubkey,
		admin:  cfg.Admin,
		uris:   slices.Clone(cfg.URIs),
		clock:  clock,
		events: events,
	}, nil
}

// Resolve looks up the given field of a domain.
//
// Without a well-formed 4-element hint it fails with an
// *OffchainResolvingError naming the current endpoint set. With a hint of
// [value, r, s, maxValidity] it checks expiry, recomputes the chained message
// hash and verifies the signature, returning the resolved value on success
// with no further side effects.
func (c *Contract) Resolve(domain []felt.Felt, field felt.Felt, hint []felt.Felt) (felt.Felt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(hint) != interfaces.HintLen {
		return felt.Zero, &OffchainResolvingError{
			Domain: slices.Clone(domain),
			URIs:   slices.Clone(c.uris),
		}
	}

	value, r, s, maxValidity := hint[0], hint[1], hint[2], hint[3]

	now := new(big.Int).SetUint64(c.clock())
	if maxValidity.Big().Cmp(now) <= 0 {
		return felt.Zero, ErrSignatureExpired
	}

	domainHash := felt.HashDomain(domain)
	messageHash := cryptoutils.FoldHash(cryptoutils.ProtocolTag, maxValidity, domainHash, field, value)

	if !cryptoutils.VerifyHash(c.pubkey, messageHash, r, s) {
		return felt.Zero, ErrInvalidSignature
	}
	return value, nil
}

// URIs returns the current endpoint set in insertion order.
func (c *Contract) URIs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.uris)
}

// AddURI appends an endpoint URI and emits a change-notification event with
// the added URI. Administrator only.
func (c *Contract) AddURI(caller common.Address, uri string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.admin {
		return ErrUnauthorized
	}

	fragments, err := felt.EncodeLongString(uri)
	if err != nil {
		return fmt.Errorf("invalid uri %q: %w", uri, err)
	}

	c.uris = append(c.uris, uri)
	c.events.URIChanged(URIChangeEvent{URIAdded: fragments})
	return nil
}

// RemoveURI removes the endpoint at the given position and emits a
// change-notification event with the removed URI. Administrator only.
func (c *Contract) RemoveURI(caller common.Address, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.admin {
		return ErrUnauthorized
	}
	if index < 0 || index >= len(c.uris) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	removed := c.uris[index]
	c.uris = slices.Delete(c.uris, index, index+1)

	// The URI was validated on insertion, so re-encoding cannot fail.
	fragments, _ := felt.EncodeLongString(removed)
	c.events.URIChanged(URIChangeEvent{URIRemoved: fragments})
	return nil
}
