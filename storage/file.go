package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceSize = 24
	keySize   = 32
)

// FileStore keeps all values in a single JSON document on disk. Every operation re-reads the file so
// several processes sharing it behave like browser tabs sharing localStorage: last write wins.
//
// With a key the document is sealed with NaCl secretbox (nonce || box).
//
// Get reports a document that can't be read (corrupt, or sealed with another key). Set and Delete
// instead start a new, empty document in its place and log a warning, so every other stored value
// is lost.
type FileStore struct {
	path string
	key  *[keySize]byte
	log  zerolog.Logger
	mu   sync.Mutex
}

type FileStoreOption func(*FileStore)

// WithFileStoreLogger sets the logger that reports a reset of an unreadable document.
func WithFileStoreLogger(l zerolog.Logger) FileStoreOption {
	return func(f *FileStore) { f.log = l }
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path. hexKey is either empty (plain JSON) or 64 hex characters.
func NewFileStore(path, hexKey string, opts ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("[storage NewFileStore] path is required")
	}

	fs := &FileStore{path: path, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(fs)
	}
	if hexKey == "" {
		return fs, nil
	}

	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != keySize {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidStorageKey, "[storage NewFileStore] expected %d hex encoded bytes", keySize)
	}
	fs.key = new([keySize]byte)
	copy(fs.key[:], raw)
	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	values := f.loadOrReset()
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := f.loadOrReset()
	for _, k := range keys {
		delete(values, k)
	}
	return f.save(values)
}

// loadOrReset is load for writers: an unreadable document can't be merged into, so it is replaced.
func (f *FileStore) loadOrReset() map[string]string {
	values, err := f.load()
	if err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("stored session unreadable, starting a new one")
		return make(map[string]string)
	}
	return values
}

func (f *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[FileStore load] read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if f.key != nil {
		if data, err = f.open(data); err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("[FileStore load] decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("[FileStore save] encode: %w", err)
	}

	if f.key != nil {
		if data, err = f.seal(data); err != nil {
			return err
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[FileStore save] create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("[FileStore save] temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore save] write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileStore save] close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("[FileStore save] chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("[FileStore save] rename: %w", err)
	}
	return nil
}

func (f *FileStore) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("[FileStore seal] nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, f.key), nil
}

func (f *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, apperrors.ErrSealedData
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, apperrors.ErrSealedData
	}
	return plain, nil
}
