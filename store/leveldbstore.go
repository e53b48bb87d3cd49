package store

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/btcsync/chain/types"
)

// LevelDBStore is the alternative on-disk backend, for deployments that
// prefer goleveldb's simpler single-writer model over pebble's. It
// shares PebbleStore's key layout byte-for-byte, so a store can be
// migrated between the two by copying key/value pairs verbatim.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (creating if absent) a goleveldb-backed store
// at dir, writing genesis as block 0 if the database is empty.
func OpenLevelDBStore(dir string, genesis *types.Block) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, &ErrStorageFailure{Op: "open", Err: err}
	}
	s := &LevelDBStore{db: db}

	if _, err := db.Get([]byte{keyBestBlock}, nil); err != nil {
		if err != leveldb.ErrNotFound {
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

func (s *LevelDBStore) writeGenesis(genesis *types.Block) error {
	return s.commitBlock(genesis.Hash(), 0, genesis)
}

func (s *LevelDBStore) commitBlock(hash types.Hash, number uint32, block *types.Block) error {
	raw, err := encodeBlock(block)
	if err != nil {
		return &ErrStorageFailure{Op: "encode", Err: err}
	}

	batch := new(leveldb.Batch)
	batch.Put(numberKey(number), hash.Bytes())
	batch.Put(hashKey(hash), raw)
	best := make([]byte, 4+types.HashLength)
	binary.BigEndian.PutUint32(best[:4], number)
	copy(best[4:], hash.Bytes())
	batch.Put([]byte{keyBestBlock}, best)
	heightRaw := make([]byte, 4)
	binary.BigEndian.PutUint32(heightRaw, number)
	batch.Put(heightIndexKey(hash), heightRaw)

	if err := s.db.Write(batch, nil); err != nil {
		return &ErrStorageFailure{Op: "write", Err: err}
	}
	return nil
}

func (s *LevelDBStore) BlockHash(number uint32) (types.Hash, bool) {
	raw, err := s.db.Get(numberKey(number), nil)
	if err != nil {
		return types.Hash{}, false
	}
	return types.BytesToHash(raw), true
}

func (s *LevelDBStore) BlockNumber(hash types.Hash) (uint32, bool) {
	raw, err := s.db.Get(heightIndexKey(hash), nil)
	if err != nil || len(raw) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(raw), true
}

func (s *LevelDBStore) Block(ref types.BlockRef) (*types.Block, bool) {
	var key []byte
	switch {
	case ref.ByHash:
		key = hashKey(ref.Hash)
	case ref.ByNumber:
		hash, ok := s.BlockHash(ref.Number)
		if !ok {
			return nil, false
		}
		key = hashKey(hash)
	default:
		return nil, false
	}
	raw, err := s.db.Get(key, nil)
	if err != nil {
		return nil, false
	}
	blk, err := decodeBlock(raw)
	if err != nil {
		return nil, false
	}
	return blk, true
}

func (s *LevelDBStore) ContainsBlock(ref types.BlockRef) bool {
	_, ok := s.Block(ref)
	return ok
}

func (s *LevelDBStore) BestBlock() types.BestBlock {
	raw, err := s.db.Get([]byte{keyBestBlock}, nil)
	if err != nil {
		return types.BestBlock{}
	}
	return types.BestBlock{
		Number: binary.BigEndian.Uint32(raw[:4]),
		Hash:   types.BytesToHash(raw[4:]),
	}
}

func (s *LevelDBStore) InsertBlock(block *types.Block) error {
	best := s.BestBlock()
	if block.Header.PreviousHeaderHash != best.Hash {
		panic(fmt.Sprintf("store: insert_block precondition violated: parent %s != tip %s",
			block.Header.PreviousHeaderHash, best.Hash))
	}
	return s.commitBlock(block.Hash(), best.Number+1, block)
}

// Close releases the underlying goleveldb handle.
func (s *LevelDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return &ErrStorageFailure{Op: "close", Err: err}
	}
	return nil
}
