package resolver

import (
	"errors"
	"fmt"

	"github.com/Jayrodri088/offchain-resolution-gateway/cryptoutils"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

// ErrMalformedPayload is returned when an off-chain resolving payload cannot
// be decoded according to the wire layout.
var ErrMalformedPayload = errors.New("malformed offchain resolving payload")

// OffchainResolvingError is the structured failure a hint-less resolve call
// ends with. It is the protocol handshake, not an incidental exception: its
// token payload tells the client which domain is being resolved and which
// endpoints can issue an attestation for it.
type OffchainResolvingError struct {
	// Domain is the encoded domain of the failed lookup.
	Domain []felt.Felt

	// URIs is the contract's endpoint set at the time of the call, in
	// insertion order.
	URIs []string
}

// Error implements the error interface.
func (e *OffchainResolvingError) Error() string {
	domain, err := felt.DecodeDomain(e.Domain)
	if err != nil {
		domain = fmt.Sprintf("%v", e.Domain)
	}
	return fmt.Sprintf("offchain resolving required for %s (%d endpoints)", domain, len(e.URIs))
}

// Payload serializes the error into its token sequence.
func (e *OffchainResolvingError) Payload() ([]felt.Felt, error) {
	return EncodeOffchainPayload(e.Domain, e.URIs)
}

// EncodeOffchainPayload serializes an off-chain resolving payload.
//
// Wire layout, one field element per token:
//
//	[0]            protocol tag, short string "offchain_resolving"
//	[1]            domain label count N
//	[2 .. 1+N]     domain labels, one short string each
//	then, repeated once per stored URI until the payload is exhausted:
//	[k]            fragment count M for this URI
//	[k+1 .. k+M]   URI fragments, short strings of at most 31 bytes
func EncodeOffchainPayload(domain []felt.Felt, uris []string) ([]felt.Felt, error) {
	payload := make([]felt.Felt, 0, 2+len(domain))
	payload = append(payload, cryptoutils.ProtocolTag)
	payload = append(payload, felt.FromUint64(uint64(len(domain))))
	payload = append(payload, domain...)

	for _, uri := range uris {
		fragments, err := felt.EncodeLongString(uri)
		if err != nil {
			return nil, fmt.Errorf("cannot encode uri %q: %w", uri, err)
		}
		payload = append(payload, felt.FromUint64(uint64(len(fragments))))
		payload = append(payload, fragments...)
	}
	return payload, nil
}

// DecodeOffchainPayload parses a token sequence produced by
// EncodeOffchainPayload back into the encoded domain and the URI list.
func DecodeOffchainPayload(payload []felt.Felt) (domain []felt.Felt, uris []string, err error) {
	if len(payload) < 2 {
		return nil, nil, fmt.Errorf("%w: too short", ErrMalformedPayload)
	}
	if !payload[0].Equal(cryptoutils.ProtocolTag) {
		return nil, nil, fmt.Errorf("%w: unexpected tag %s", ErrMalformedPayload, payload[0])
	}

	domainLen, err := payload[1].Uint64()
	if err != nil || domainLen > uint64(len(payload)-2) {
		return nil, nil, fmt.Errorf("%w: bad domain length", ErrMalformedPayload)
	}

	pos := 2
	domain = make([]felt.Felt, domainLen)
	copy(domain, payload[pos:pos+int(domainLen)])
	pos += int(domainLen)

	for pos < len(payload) {
		fragmentCount, err := payload[pos].Uint64()
		if err != nil || fragmentCount == 0 || fragmentCount > uint64(len(payload)-pos-1) {
			return nil, nil, fmt.Errorf("%w: bad uri fragment count at token %d", ErrMalformedPayload, pos)
		}
		pos++

		uri, err := felt.DecodeLongString(payload[pos : pos+int(fragmentCount)])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		uris = append(uris, uri)
		pos += int(fragmentCount)
	}
	return domain, uris, nil
}
