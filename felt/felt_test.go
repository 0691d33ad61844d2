package felt

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortStringRoundTrip(t *testing.T) {
	for _, s := range []string{"iris", "offchain_resolving", "a", "exactly-thirty-one-bytes-long!!"} {
		f, err := FromShortString(s)
		require.NoError(t, err, s)

		decoded, err := f.ShortString()
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestShortStringRejectsInvalid(t *testing.T) {
	_, err := FromShortString(strings.Repeat("a", 32))
	assert.ErrorIs(t, err, ErrInvalidShortString)

	_, err = FromShortString("has\nnewline")
	assert.ErrorIs(t, err, ErrInvalidShortString)
}

func TestFromHex(t *testing.T) {
	f, err := FromHex("0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", f.Hex())

	same, err := FromHex("abc")
	require.NoError(t, err)
	assert.True(t, f.Equal(same))

	_, err = FromHex("0xzz")
	assert.Error(t, err)

	_, err = FromHex("")
	assert.Error(t, err)
}

func TestFromBytesRejectsOversized(t *testing.T) {
	_, err := FromBytes(make([]byte, 33))
	assert.ErrorIs(t, err, ErrValueTooLarge)
}

func TestUint64Conversion(t *testing.T) {
	f := FromUint64(1700000000)
	v, err := f.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), v)

	big65 := new(big.Int).Lsh(big.NewInt(1), 65)
	huge, err := FromBig(big65)
	require.NoError(t, err)
	_, err = huge.Uint64()
	assert.ErrorIs(t, err, ErrValueTooLarge)
}

func TestLongStringRoundTrip(t *testing.T) {
	uri := "https://gateway.example.com/very/long/resolution/path/that/spans/fragments"
	fragments, err := EncodeLongString(uri)
	require.NoError(t, err)
	assert.Greater(t, len(fragments), 1)

	decoded, err := DecodeLongString(fragments)
	require.NoError(t, err)
	assert.Equal(t, uri, decoded)
}

func TestLongStringShortInput(t *testing.T) {
	fragments, err := EncodeLongString("api.example.com")
	require.NoError(t, err)
	assert.Len(t, fragments, 1)

	_, err = EncodeLongString("")
	assert.Error(t, err)
}
