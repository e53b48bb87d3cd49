package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// Header is the 80-byte summary of a block, used to chain blocks without
// pulling the transaction payload. Field layout mirrors the Bitcoin wire
// format (version, previous block hash, merkle root, time, bits, nonce).
type Header struct {
	Version           int32
	PreviousHeaderHash Hash
	MerkleRootHash    Hash
	Time              uint32
	Bits              uint32
	Nonce             uint32
}

// Hash computes the block identity: the double-SHA256 digest of the
// 80-byte serialized header, reversed into little-endian display order
// is NOT performed here -- callers needing wire-order bytes use Bytes().
func (h *Header) Hash() Hash {
	raw := h.serialize()
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	return Hash(second)
}

// serialize encodes the header into its canonical 80-byte wire form.
func (h *Header) serialize() []byte {
	buf := make([]byte, 80)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PreviousHeaderHash.Bytes())
	copy(buf[36:68], h.MerkleRootHash.Bytes())
	binary.LittleEndian.PutUint32(buf[68:72], h.Time)
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	return buf
}

// Bytes returns the canonical 80-byte serialized header.
func (h *Header) Bytes() []byte { return h.serialize() }

// Block pairs a header with its transaction payload. Transaction-level
// parsing and validation are out of scope for the synchronization chain;
// the payload is carried opaquely.
type Block struct {
	Header       Header
	Transactions [][]byte
}

// Hash returns the block's identity, which is simply its header's hash.
func (b *Block) Hash() Hash { return b.Header.Hash() }

// BlockRef identifies a block either by hash or by height, mirroring the
// two ways the storage layer is addressed.
type BlockRef struct {
	ByHash   bool
	Hash     Hash
	ByNumber bool
	Number   uint32
}

// RefByHash builds a BlockRef that addresses a block by hash.
func RefByHash(h Hash) BlockRef { return BlockRef{ByHash: true, Hash: h} }

// RefByNumber builds a BlockRef that addresses a block by height.
func RefByNumber(n uint32) BlockRef { return BlockRef{ByNumber: true, Number: n} }

// BestBlock identifies the current chain tip by height and hash.
type BestBlock struct {
	Number uint32
	Hash   Hash
}
