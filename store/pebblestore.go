package store

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/btcsync/chain/types"
)

// PebbleStore persists blocks in a pebble LSM tree, keyed with the same
// height/hash prefixes MemStore uses. It is the default on-disk backend:
// pebble's write-ahead log and leveled compaction suit the sequential,
// append-mostly write pattern the chain produces (one InsertBlock per
// verified block, no updates to existing keys).
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (creating if absent) a pebble-backed store at
// dir. If the database is empty, genesis is written as block 0.
func OpenPebbleStore(dir string, genesis *types.Block) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, &ErrStorageFailure{Op: "open", Err: err}
	}
	s := &PebbleStore{db: db}

	if _, err := db.Get([]byte{keyBestBlock}); err != nil {
		if err != pebble.ErrNotFound {
			db.Close()
			return nil, &ErrStorageFailure{Op: "open", Err: err}
		}
		if err := s.writeGenesis(genesis); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *PebbleStore) writeGenesis(genesis *types.Block) error {
	hash := genesis.Hash()
	if err := s.commitBlock(hash, 0, genesis); err != nil {
		return err
	}
	heightRaw := make([]byte, 4)
	binary.BigEndian.PutUint32(heightRaw, 0)
	if err := s.db.Set(heightIndexKey(hash), heightRaw, pebble.Sync); err != nil {
		return &ErrStorageFailure{Op: "set", Err: err}
	}
	return nil
}

func (s *PebbleStore) commitBlock(hash types.Hash, number uint32, block *types.Block) error {
	raw, err := encodeBlock(block)
	if err != nil {
		return &ErrStorageFailure{Op: "encode", Err: err}
	}
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(numberKey(number), hash.Bytes(), nil); err != nil {
		return &ErrStorageFailure{Op: "set", Err: err}
	}
	if err := batch.Set(hashKey(hash), raw, nil); err != nil {
		return &ErrStorageFailure{Op: "set", Err: err}
	}
	best := make([]byte, 4+types.HashLength)
	binary.BigEndian.PutUint32(best[:4], number)
	copy(best[4:], hash.Bytes())
	if err := batch.Set([]byte{keyBestBlock}, best, nil); err != nil {
		return &ErrStorageFailure{Op: "set", Err: err}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return &ErrStorageFailure{Op: "commit", Err: err}
	}
	return nil
}

func (s *PebbleStore) BlockHash(number uint32) (types.Hash, bool) {
	raw, closer, err := s.db.Get(numberKey(number))
	if err != nil {
		return types.Hash{}, false
	}
	defer closer.Close()
	return types.BytesToHash(raw), true
}

func (s *PebbleStore) BlockNumber(hash types.Hash) (uint32, bool) {
	return s.heightIndexLookup(hash)
}

// heightIndexLookup resolves a hash to its height via a small auxiliary
// key, written alongside every block commit.
func (s *PebbleStore) heightIndexLookup(hash types.Hash) (uint32, bool) {
	raw, closer, err := s.db.Get(heightIndexKey(hash))
	if err != nil {
		return 0, false
	}
	defer closer.Close()
	if len(raw) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(raw), true
}

func (s *PebbleStore) getBlockRaw(key []byte) ([]byte, bool) {
	raw, closer, err := s.db.Get(key)
	if err != nil {
		return nil, false
	}
	defer closer.Close()
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

func (s *PebbleStore) Block(ref types.BlockRef) (*types.Block, bool) {
	var raw []byte
	var ok bool
	switch {
	case ref.ByHash:
		raw, ok = s.getBlockRaw(hashKey(ref.Hash))
	case ref.ByNumber:
		hash, found := s.BlockHash(ref.Number)
		if !found {
			return nil, false
		}
		raw, ok = s.getBlockRaw(hashKey(hash))
	}
	if !ok {
		return nil, false
	}
	blk, err := decodeBlock(raw)
	if err != nil {
		return nil, false
	}
	return blk, true
}

func (s *PebbleStore) ContainsBlock(ref types.BlockRef) bool {
	_, ok := s.Block(ref)
	return ok
}

func (s *PebbleStore) BestBlock() types.BestBlock {
	raw, closer, err := s.db.Get([]byte{keyBestBlock})
	if err != nil {
		return types.BestBlock{}
	}
	defer closer.Close()
	number := binary.BigEndian.Uint32(raw[:4])
	hash := types.BytesToHash(raw[4:])
	return types.BestBlock{Number: number, Hash: hash}
}

func (s *PebbleStore) InsertBlock(block *types.Block) error {
	best := s.BestBlock()
	if block.Header.PreviousHeaderHash != best.Hash {
		panic(fmt.Sprintf("store: insert_block precondition violated: parent %s != tip %s",
			block.Header.PreviousHeaderHash, best.Hash))
	}
	hash := block.Hash()
	number := best.Number + 1
	if err := s.commitBlock(hash, number, block); err != nil {
		return err
	}
	heightRaw := make([]byte, 4)
	binary.BigEndian.PutUint32(heightRaw, number)
	if err := s.db.Set(heightIndexKey(hash), heightRaw, pebble.Sync); err != nil {
		return &ErrStorageFailure{Op: "set", Err: err}
	}
	return nil
}

// Close releases the underlying pebble handle.
func (s *PebbleStore) Close() error {
	if err := s.db.Close(); err != nil {
		return &ErrStorageFailure{Op: "close", Err: err}
	}
	return nil
}

const prefixHeightIndex byte = 0x04

func heightIndexKey(h types.Hash) []byte {
	buf := make([]byte, 1+types.HashLength)
	buf[0] = prefixHeightIndex
	copy(buf[1:], h.Bytes())
	return buf
}
