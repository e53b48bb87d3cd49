package headerschain

import (
	"encoding/binary"

	"github.com/btcsync/chain/types"
)

// encodeHeader and decodeHeader give the fastcache layer a byte
// representation to store and retrieve; they mirror the wire encoding
// types.Header.Bytes produces.
func encodeHeader(h *types.Header) []byte {
	return h.Bytes()
}

func decodeHeader(raw []byte) *types.Header {
	if len(raw) != 80 {
		return nil
	}
	var prev, merkle types.Hash
	prev.SetBytes(raw[4:36])
	merkle.SetBytes(raw[36:68])
	return &types.Header{
		Version:            int32(binary.LittleEndian.Uint32(raw[0:4])),
		PreviousHeaderHash: prev,
		MerkleRootHash:     merkle,
		Time:               binary.LittleEndian.Uint32(raw[68:72]),
		Bits:               binary.LittleEndian.Uint32(raw[72:76]),
		Nonce:              binary.LittleEndian.Uint32(raw[76:80]),
	}
}
