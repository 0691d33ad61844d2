package resolver

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayrodri088/offchain-resolution-gateway/cryptoutils"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

var (
	testAdmin    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testStranger = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testField    = felt.MustFromShortString("starknet")
)

// testClock is a fixed block timestamp for deterministic expiry checks.
const testClock uint64 = 1_700_000_000

func newTestContract(t *testing.T, uris []string) (*Contract, *ecdsa.PrivateKey, *EventRecorder) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	recorder := &EventRecorder{}
	contract, err := NewContract(ContractConfig{
		Pubkey: &key.PublicKey,
		Admin:  testAdmin,
		URIs:   uris,
		Clock:  func() uint64 { return testClock },
		Events: recorder,
	})
	require.NoError(t, err)

	return contract, key, recorder
}

func encodeTestDomain(t *testing.T, domain string) []felt.Felt {
	t.Helper()
	labels, err := felt.ParseDomainString(domain)
	require.NoError(t, err)
	encoded, err := felt.EncodeDomain(labels)
	require.NoError(t, err)
	return encoded
}

// signHint builds a well-formed 4-element hint over the given tuple.
func signHint(t *testing.T, key *ecdsa.PrivateKey, domain []felt.Felt, field, value felt.Felt, maxValidity uint64) []felt.Felt {
	t.Helper()

	hash := cryptoutils.FoldHash(
		cryptoutils.ProtocolTag,
		felt.FromUint64(maxValidity),
		felt.HashDomain(domain),
		field,
		value,
	)
	r, s, err := cryptoutils.SignHash(key, hash)
	require.NoError(t, err)

	return []felt.Felt{value, r, s, felt.FromUint64(maxValidity)}
}

func TestResolveWithoutHintSignalsOffchain(t *testing.T) {
	uris := []string{"https://gw1.example.com", "https://gw2.example.com/api"}
	contract, _, _ := newTestContract(t, uris)
	domain := encodeTestDomain(t, "iris.notion.stark")

	_, err := contract.Resolve(domain, testField, nil)

	var offchain *OffchainResolvingError
	require.ErrorAs(t, err, &offchain)
	assert.Equal(t, domain, offchain.Domain)
	assert.Equal(t, uris, offchain.URIs)

	// The payload leads with the protocol tag followed by the domain.
	payload, err := offchain.Payload()
	require.NoError(t, err)
	assert.Equal(t, cryptoutils.ProtocolTag, payload[0])

	gotLen, err := payload[1].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(domain)), gotLen)
}

func TestResolveMalformedHintSignalsOffchain(t *testing.T) {
	contract, key, _ := newTestContract(t, []string{"https://gw.example.com"})
	domain := encodeTestDomain(t, "iris.notion.stark")
	value := felt.FromUint64(0xabc)

	hint := signHint(t, key, domain, testField, value, testClock+600)

	for _, malformed := range [][]felt.Felt{
		hint[:3],
		append(append([]felt.Felt{}, hint...), felt.Zero),
		{value},
	} {
		_, err := contract.Resolve(domain, testField, malformed)
		var offchain *OffchainResolvingError
		assert.ErrorAs(t, err, &offchain, "hint of %d elements", len(malformed))
	}
}

func TestResolveValidHint(t *testing.T) {
	contract, key, _ := newTestContract(t, []string{"https://gw.example.com"})
	domain := encodeTestDomain(t, "iris.notion.stark")
	value, err := felt.FromHex("0xabc")
	require.NoError(t, err)

	hint := signHint(t, key, domain, testField, value, testClock+600)

	resolved, err := contract.Resolve(domain, testField, hint)
	require.NoError(t, err)
	assert.Equal(t, value, resolved)
}

func TestResolveExpiredHint(t *testing.T) {
	contract, key, _ := newTestContract(t, nil)
	domain := encodeTestDomain(t, "iris.notion.stark")
	value := felt.FromUint64(0xabc)

	// Validity must be strictly greater than the clock.
	for _, validity := range []uint64{testClock - 600, testClock} {
		hint := signHint(t, key, domain, testField, value, validity)
		_, err := contract.Resolve(domain, testField, hint)
		assert.ErrorIs(t, err, ErrSignatureExpired, "validity %d", validity)
	}

	hint := signHint(t, key, domain, testField, value, testClock+1)
	_, err := contract.Resolve(domain, testField, hint)
	assert.NoError(t, err)
}

func TestResolveTamperedHint(t *testing.T) {
	contract, key, _ := newTestContract(t, nil)
	domain := encodeTestDomain(t, "iris.notion.stark")
	value := felt.FromUint64(0xabc)

	hint := signHint(t, key, domain, testField, value, testClock+600)

	// Flipping one bit of any hint element must never yield a value. A
	// tampered validity that still passes the expiry check surfaces as a
	// signature mismatch.
	for i := range hint {
		tampered := append([]felt.Felt{}, hint...)
		tampered[i][31] ^= 0x01

		resolved, err := contract.Resolve(domain, testField, tampered)
		assert.ErrorIs(t, err, ErrInvalidSignature, "element %d", i)
		assert.True(t, resolved.IsZero())
	}
}

func TestResolveWrongSigner(t *testing.T) {
	contract, _, _ := newTestContract(t, nil)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	domain := encodeTestDomain(t, "iris.notion.stark")
	hint := signHint(t, otherKey, domain, testField, felt.FromUint64(0xabc), testClock+600)

	_, err = contract.Resolve(domain, testField, hint)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestResolveWrongFieldOrDomain(t *testing.T) {
	contract, key, _ := newTestContract(t, nil)
	domain := encodeTestDomain(t, "iris.notion.stark")
	hint := signHint(t, key, domain, testField, felt.FromUint64(0xabc), testClock+600)

	otherField := felt.MustFromShortString("email")
	_, err := contract.Resolve(domain, otherField, hint)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	otherDomain := encodeTestDomain(t, "mallory.notion.stark")
	_, err = contract.Resolve(otherDomain, testField, hint)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestAddURI(t *testing.T) {
	contract, _, recorder := newTestContract(t, []string{"https://gw1.example.com"})

	require.NoError(t, contract.AddURI(testAdmin, "https://gw2.example.com"))
	assert.Equal(t, []string{"https://gw1.example.com", "https://gw2.example.com"}, contract.URIs())

	events := recorder.Events()
	require.Len(t, events, 1)

	added, err := events[0].AddedURI()
	require.NoError(t, err)
	assert.Equal(t, "https://gw2.example.com", added)
	assert.Empty(t, events[0].URIRemoved)
}

func TestRemoveURI(t *testing.T) {
	contract, _, recorder := newTestContract(t, []string{"a.example.com", "b.example.com", "c.example.com"})

	require.NoError(t, contract.RemoveURI(testAdmin, 1))
	assert.Equal(t, []string{"a.example.com", "c.example.com"}, contract.URIs())

	events := recorder.Events()
	require.Len(t, events, 1)

	removed, err := events[0].RemovedURI()
	require.NoError(t, err)
	assert.Equal(t, "b.example.com", removed)
	assert.Empty(t, events[0].URIAdded)
}

func TestRemoveURIOutOfRange(t *testing.T) {
	contract, _, recorder := newTestContract(t, []string{"a.example.com"})

	for _, index := range []int{-1, 1, 42} {
		err := contract.RemoveURI(testAdmin, index)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", index)
	}

	assert.Equal(t, []string{"a.example.com"}, contract.URIs())
	assert.Empty(t, recorder.Events(), "failed mutations must not emit events")
}

func TestURIMutationsRequireAdmin(t *testing.T) {
	contract, _, recorder := newTestContract(t, []string{"a.example.com"})

	assert.ErrorIs(t, contract.AddURI(testStranger, "b.example.com"), ErrUnauthorized)
	assert.ErrorIs(t, contract.RemoveURI(testStranger, 0), ErrUnauthorized)

	assert.Equal(t, []string{"a.example.com"}, contract.URIs())
	assert.Empty(t, recorder.Events())
}

func TestOneEventPerMutation(t *testing.T) {
	contract, _, recorder := newTestContract(t, nil)

	require.NoError(t, contract.AddURI(testAdmin, "a.example.com"))
	require.NoError(t, contract.AddURI(testAdmin, "b.example.com"))
	require.NoError(t, contract.RemoveURI(testAdmin, 0))

	assert.Len(t, recorder.Events(), 3)
}

func TestNewContractRequiresPubkey(t *testing.T) {
	_, err := NewContract(ContractConfig{})
	assert.Error(t, err)
}
