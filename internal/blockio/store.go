// Package blockio implements the fixed-size block store each server
// owns: a single backing file, zero-filled on first use, read and
// written under one exclusive lock.
package blockio

import (
	"fmt"
	"os"
	"sync"
)

// BlockSize is the fixed unit of client-visible storage, in bytes.
const BlockSize = 4096

// DefaultSizeMB is the default backing region size when a caller
// doesn't override it.
const DefaultSizeMB = 64

// Store is a byte-addressable container that reads and writes
// BlockSize-byte blocks at byte offsets into a single backing file.
// All accesses are serialized by storeLock; no per-block locking is
// needed because every I/O path goes through this one entry point.
//
// Address alignment is not validated: callers must pass block-aligned
// addresses. Misaligned addresses are undefined behavior of the
// caller.
type Store struct {
	mu   sync.Mutex
	file *os.File
	size int64
}

// Open opens (creating if necessary) the backing file at path and
// extends it to at least sizeMB megabytes, zero-filling any new
// region. Safe to call again on an already-initialized file: growing
// is idempotent, shrinking never happens.
func Open(path string, sizeMB int) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blockio: open %s: %w", path, err)
	}
	s := &Store{file: f}
	if err := s.init(int64(sizeMB) * 1024 * 1024); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(minSize int64) error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("blockio: stat: %w", err)
	}
	if info.Size() >= minSize {
		s.size = info.Size()
		return nil
	}
	if err := s.file.Truncate(minSize); err != nil {
		return fmt.Errorf("blockio: truncate to %d: %w", minSize, err)
	}
	s.size = minSize
	return nil
}

// Close releases the backing file handle.
func (s *Store) Close() error {
	return s.file.Close()
}

// Read returns the BlockSize bytes stored at addr. Fails if the
// backing region is shorter than addr+BlockSize.
func (s *Store) Read(addr uint64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBounds(addr); err != nil {
		return nil, err
	}
	buf := make([]byte, BlockSize)
	if _, err := s.file.ReadAt(buf, int64(addr)); err != nil {
		return nil, fmt.Errorf("blockio: read at %d: %w", addr, err)
	}
	return buf, nil
}

// Write stores block at addr, replacing whatever was there. A read
// that follows a successfully returned Write to the same address, with
// no intervening write, observes these exact bytes. Durability across
// a crash before the next fsync is not guaranteed; the replication
// protocol is designed to tolerate that.
func (s *Store) Write(addr uint64, block []byte) error {
	if len(block) != BlockSize {
		return fmt.Errorf("blockio: write at %d: block is %d bytes, want %d", addr, len(block), BlockSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBounds(addr); err != nil {
		return err
	}
	if _, err := s.file.WriteAt(block, int64(addr)); err != nil {
		return fmt.Errorf("blockio: write at %d: %w", addr, err)
	}
	return nil
}

func (s *Store) checkBounds(addr uint64) error {
	if int64(addr)+BlockSize > s.size {
		return fmt.Errorf("blockio: addr %d+%d exceeds store size %d", addr, BlockSize, s.size)
	}
	return nil
}
