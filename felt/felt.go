// Package felt implements the 32-byte field element used on the wire by the
// off-chain resolution protocol, along with the short-string packing scheme
// that encodes ASCII tokens (protocol tags, domain labels, URI fragments)
// into field elements.
package felt

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MaxShortStringLen is the maximum number of bytes a single field element can
// carry as a packed short string.
const MaxShortStringLen = 31

var (
	// ErrValueTooLarge is returned when a value does not fit in 32 bytes.
	ErrValueTooLarge = errors.New("value does not fit in a field element")

	// ErrInvalidShortString is returned for strings that are too long or
	// contain non-printable characters.
	ErrInvalidShortString = errors.New("invalid short string")
)

// Felt is a single field element, stored as a big-endian 32-byte value.
type Felt [32]byte

// Zero is the zero field element.
var Zero = Felt{}

// FromBytes creates a field element from up to 32 big-endian bytes,
// left-padding shorter inputs with zeros.
func FromBytes(b []byte) (Felt, error) {
	if len(b) > 32 {
		return Felt{}, ErrValueTooLarge
	}

	var f Felt
	copy(f[32-len(b):], b)
	return f, nil
}

// FromBig creates a field element from a non-negative big integer.
func FromBig(v *big.Int) (Felt, error) {
	if v.Sign() < 0 {
		return Felt{}, errors.New("negative value cannot be a field element")
	}
	return FromBytes(v.Bytes())
}

// FromUint64 creates a field element from an unsigned integer.
func FromUint64(v uint64) Felt {
	f, _ := FromBig(new(big.Int).SetUint64(v))
	return f
}

// FromHex parses a hex string, with or without a 0x prefix, into a field
// element. Odd-length hex strings are accepted and zero-padded on the left.
func FromHex(s string) (Felt, error) {
	clean := strings.TrimPrefix(s, "0x")
	if clean == "" {
		return Felt{}, errors.New("empty hex string")
	}
	if len(clean)%2 != 0 {
		clean = "0" + clean
	}

	b, err := hex.DecodeString(clean)
	if err != nil {
		return Felt{}, fmt.Errorf("invalid hex format: %w", err)
	}
	return FromBytes(b)
}

// FromShortString packs a printable ASCII string of at most 31 bytes into a
// field element, big-endian with the first character in the most significant
// position of the packed value.
func FromShortString(s string) (Felt, error) {
	if len(s) > MaxShortStringLen {
		return Felt{}, fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidShortString, s, MaxShortStringLen)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return Felt{}, fmt.Errorf("%w: non-printable byte 0x%02x", ErrInvalidShortString, s[i])
		}
	}
	return FromBytes([]byte(s))
}

// MustFromShortString is FromShortString for compile-time constants; it
// panics on invalid input.
func MustFromShortString(s string) Felt {
	f, err := FromShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ShortString unpacks a field element into the ASCII string it encodes.
func (f Felt) ShortString() (string, error) {
	trimmed := bytes.TrimLeft(f[:], "\x00")
	for _, b := range trimmed {
		if b < 0x20 || b > 0x7e {
			return "", fmt.Errorf("%w: non-printable byte 0x%02x", ErrInvalidShortString, b)
		}
	}
	return string(trimmed), nil
}

// Big returns the field element as a big integer.
func (f Felt) Big() *big.Int {
	return new(big.Int).SetBytes(f[:])
}

// Uint64 returns the field element as a uint64, or an error if it does not fit.
func (f Felt) Uint64() (uint64, error) {
	v := f.Big()
	if !v.IsUint64() {
		return 0, ErrValueTooLarge
	}
	return v.Uint64(), nil
}

// Bytes returns a copy of the full 32-byte big-endian representation.
func (f Felt) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, f[:])
	return out
}

// Hex returns a compact 0x-prefixed hex representation with leading zeros
// stripped.
func (f Felt) Hex() string {
	return hexutil.EncodeBig(f.Big())
}

// String implements fmt.Stringer.
func (f Felt) String() string {
	return f.Hex()
}

// IsZero reports whether the field element is zero.
func (f Felt) IsZero() bool {
	return f == Zero
}

// Equal compares two field elements.
func (f Felt) Equal(other Felt) bool {
	return f == other
}

// EncodeLongString splits an arbitrary-length printable ASCII string into an
// ordered sequence of short-string fragments of at most 31 bytes each.
func EncodeLongString(s string) ([]Felt, error) {
	if s == "" {
		return nil, errors.New("empty string")
	}

	fragments := make([]Felt, 0, (len(s)+MaxShortStringLen-1)/MaxShortStringLen)
	for len(s) > 0 {
		n := min(len(s), MaxShortStringLen)
		f, err := FromShortString(s[:n])
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
		s = s[n:]
	}
	return fragments, nil
}

// DecodeLongString reassembles a string from its short-string fragments.
func DecodeLongString(fragments []Felt) (string, error) {
	var sb strings.Builder
	for _, f := range fragments {
		s, err := f.ShortString()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}
