// Package types defines the core data structures of the Bitcoin-protocol
// block synchronization chain: hashes, headers, blocks and the small set
// of reference types the storage layer exchanges with the chain facade.
package types

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the size in bytes of a double-SHA256 digest.
const HashLength = 32

// Hash is a 32-byte double-SHA256 digest, used for block and header
// identities throughout the sync chain.
type Hash [HashLength]byte

// ZeroHash is the all-zero digest, used as the "no parent" sentinel for
// the genesis header.
var ZeroHash Hash

// BytesToHash converts bytes to a Hash, left-padding if shorter than 32
// bytes and truncating the most-significant bytes if longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash decodes a hex string (with or without "0x" prefix) into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the byte slice representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the "0x"-prefixed hex string representation of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// SetBytes sets the hash from a byte slice, left-padding if necessary.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	for i := range h {
		h[i] = 0
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero reports whether the hash is the all-zero sentinel.
func (h Hash) IsZero() bool { return h == ZeroHash }

func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("types: invalid hex hash %q: %v", s, err))
	}
	return b
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
