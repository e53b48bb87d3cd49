package store

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsync/chain/types"
)

// encodeBlock and decodeBlock give the on-disk backends a byte
// representation for types.Block: the 80-byte header verbatim, followed
// by the transaction payload as a count-prefixed vector of
// length-prefixed byte strings. Each frame uses a 4-byte big-endian
// length prefix -- no general-purpose reflective encoder is needed since types.Block has exactly two fields and the
// payload is carried opaquely (see types.Block's doc comment).
func encodeBlock(b *types.Block) ([]byte, error) {
	buf := make([]byte, 0, 80+4+len(b.Transactions)*4)
	buf = append(buf, b.Header.Bytes()...)

	var countField [4]byte
	binary.BigEndian.PutUint32(countField[:], uint32(len(b.Transactions)))
	buf = append(buf, countField[:]...)

	for _, tx := range b.Transactions {
		var lenField [4]byte
		binary.BigEndian.PutUint32(lenField[:], uint32(len(tx)))
		buf = append(buf, lenField[:]...)
		buf = append(buf, tx...)
	}
	return buf, nil
}

func decodeBlock(raw []byte) (*types.Block, error) {
	const headerLen = 80
	if len(raw) < headerLen+4 {
		return nil, fmt.Errorf("store: block record too short (%d bytes)", len(raw))
	}

	header, err := decodeHeader(raw[:headerLen])
	if err != nil {
		return nil, err
	}
	offset := headerLen

	count := binary.BigEndian.Uint32(raw[offset : offset+4])
	offset += 4

	txs := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if offset+4 > len(raw) {
			return nil, fmt.Errorf("store: truncated transaction length at frame %d", i)
		}
		frameLen := int(binary.BigEndian.Uint32(raw[offset : offset+4]))
		offset += 4
		if offset+frameLen > len(raw) {
			return nil, fmt.Errorf("store: truncated transaction body at frame %d", i)
		}
		tx := make([]byte, frameLen)
		copy(tx, raw[offset:offset+frameLen])
		txs = append(txs, tx)
		offset += frameLen
	}

	return &types.Block{Header: *header, Transactions: txs}, nil
}

// decodeHeader parses the canonical 80-byte wire header back into its
// field layout; the inverse of Header.Bytes().
func decodeHeader(raw []byte) (*types.Header, error) {
	if len(raw) != 80 {
		return nil, fmt.Errorf("store: header record must be 80 bytes, got %d", len(raw))
	}
	return &types.Header{
		Version:            int32(binary.LittleEndian.Uint32(raw[0:4])),
		PreviousHeaderHash: types.BytesToHash(raw[4:36]),
		MerkleRootHash:     types.BytesToHash(raw[36:68]),
		Time:               binary.LittleEndian.Uint32(raw[68:72]),
		Bits:               binary.LittleEndian.Uint32(raw[72:76]),
		Nonce:              binary.LittleEndian.Uint32(raw[76:80]),
	}, nil
}

// numberKey and hashKey give the two on-disk backends an identical
// keyspace layout: a one-byte prefix to separate the height index from
// the hash index, avoiding collisions within a single flat keyspace.
const (
	prefixByHeight byte = 0x01
	prefixByHash   byte = 0x02
	keyBestBlock   byte = 0x03
)

func numberKey(number uint32) []byte {
	buf := make([]byte, 5)
	buf[0] = prefixByHeight
	binary.BigEndian.PutUint32(buf[1:], number)
	return buf
}

func hashKey(h types.Hash) []byte {
	buf := make([]byte, 1+types.HashLength)
	buf[0] = prefixByHash
	copy(buf[1:], h.Bytes())
	return buf
}
