package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/smbreplay/pkg/codec"
	"github.com/ssargent/smbreplay/pkg/replay"
)

// ErrReplayNotFound is returned when no replay is stored under an id
var ErrReplayNotFound = &codec.CodecError{Message: "replay not found"}

// ErrLibraryClosed is returned by every operation after Close
var ErrLibraryClosed = &codec.CodecError{Message: "replay library closed"}

var keyPrefix = []byte("replay/")

const sizeFieldSize = 8

// Entry summarizes a stored replay
type Entry struct {
	ID        ksuid.KSUID   `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Header    replay.Header `json:"header"`
	Size      int           `json:"stored_bytes"`
}

// Library keeps replays in a pebble database keyed by ksuid. Records are
// stored RLE compressed behind their uncompressed length, the same payload
// layout a memory card file uses.
type Library struct {
	mu     sync.RWMutex
	db     *pebble.DB
	closed bool
}

// Open opens or creates a library at path
func Open(path string) (*Library, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open replay library: %w", err)
	}
	return &Library{db: db}, nil
}

// Put stores r under a new id
func (s *Library) Put(r *replay.Record) (ksuid.KSUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ksuid.Nil, ErrLibraryClosed
	}
	id := ksuid.New()
	if err := s.db.Set(key(id), encodeValue(r), pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store replay: %w", err)
	}
	return id, nil
}

// Get loads the replay stored under id
func (s *Library) Get(id ksuid.KSUID) (*replay.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrLibraryClosed
	}
	value, err := s.read(id)
	if err != nil {
		return nil, err
	}

	raw, err := decodeValue(value, replay.Size)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}
	return replay.Decode(raw)
}

// Delete removes the replay stored under id
func (s *Library) Delete(id ksuid.KSUID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrLibraryClosed
	}
	if _, err := s.read(id); err != nil {
		return err
	}
	return s.db.Delete(key(id), pebble.Sync)
}

// List returns every stored replay in creation order. Only the headers are
// decompressed.
func (s *Library) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrLibraryClosed
	}
	iter, err := s.db.NewIter(prefixOptions())
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(keyPrefix):])
		if err != nil {
			return nil, fmt.Errorf("corrupt library key %x: %w", iter.Key(), err)
		}

		raw, err := decodeValue(iter.Value(), replay.HeaderSize)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", id, err)
		}
		header, err := replay.DecodeHeaderOnly(raw)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", id, err)
		}

		entries = append(entries, Entry{
			ID:        id,
			CreatedAt: id.Time(),
			Header:    header,
			Size:      len(iter.Value()),
		})
	}
	return entries, iter.Error()
}

// Count returns the number of stored replays
func (s *Library) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrLibraryClosed
	}
	iter, err := s.db.NewIter(prefixOptions())
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Close waits for running operations and closes the database. Later calls
// return ErrLibraryClosed.
func (s *Library) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrLibraryClosed
	}
	s.closed = true
	return s.db.Close()
}

func (s *Library) read(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// pebble owns data until the closer runs
	return append([]byte(nil), data...), nil
}

func key(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), keyPrefix...), id.Bytes()...)
}

func prefixOptions() *pebble.IterOptions {
	upper := append([]byte(nil), keyPrefix...)
	upper[len(upper)-1]++
	return &pebble.IterOptions{LowerBound: keyPrefix, UpperBound: upper}
}

func encodeValue(r *replay.Record) []byte {
	raw := replay.Encode(r)
	compressed := codec.Compress(raw)

	w := codec.NewWriter(sizeFieldSize + len(compressed))
	w.PutU64(uint64(len(raw)))
	w.PutBytes(compressed)
	return w.Bytes()
}

// decodeValue expands at most limit bytes of a stored value
func decodeValue(value []byte, limit int) ([]byte, error) {
	rd := codec.NewReader(value)
	size, err := rd.U64()
	if err != nil {
		return nil, fmt.Errorf("read stored size: %w", err)
	}
	if size < uint64(limit) {
		limit = int(size)
	}
	return codec.DecompressSize(rd.Rest(), limit)
}
