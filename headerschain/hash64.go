package headerschain

import "encoding/binary"

// digestHash64 adapts an already-cryptographic 32-byte digest to the
// hash.Hash64 interface required by holiman/bloomfilter/v2. The digest
// is assumed uniformly distributed, so truncating to its first 8 bytes
// is a fine stand-in for a dedicated fast hash.
type digestHash64 uint64

func (d digestHash64) Write(p []byte) (int, error) { return len(p), nil }
func (d digestHash64) Sum(b []byte) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(d))
	return append(b, buf[:]...)
}
func (d digestHash64) Reset()         {}
func (d digestHash64) Size() int      { return 8 }
func (d digestHash64) BlockSize() int { return 1 }
func (d digestHash64) Sum64() uint64  { return uint64(d) }

func hash64Of(b [32]byte) digestHash64 {
	return digestHash64(binary.BigEndian.Uint64(b[:8]))
}
