package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Store persists opaque blobs keyed by an arbitrary source string,
// zstd-compressed on disk with an in-memory LRU in front. Keys are hashed
// into file names, so any string (URL, file path, raw document) works.
type Store struct {
	dir string
	mem *Cache[string, []byte]
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewStore opens (creating if needed) a blob store rooted at dir.
// capacity bounds the in-memory layer, not the disk.
func NewStore(dir string, capacity int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Store{dir: dir, mem: New[string, []byte](capacity), enc: enc, dec: dec}, nil
}

// Put stores blob under key, compressing the on-disk copy.
func (s *Store) Put(key string, blob []byte) error {
	compressed := s.enc.EncodeAll(blob, nil)
	if err := os.WriteFile(s.path(key), compressed, 0o644); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	s.mem.Set(key, blob)
	return nil
}

// Get retrieves the blob stored under key. ok is false when the key has
// never been stored.
func (s *Store) Get(key string) (blob []byte, ok bool, err error) {
	if b, hit := s.mem.Get(key); hit {
		return b, true, nil
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: %w", err)
	}
	blob, err = s.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cache: %w", err)
	}
	s.mem.Set(key, blob)
	return blob, true, nil
}

func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".zst")
}
