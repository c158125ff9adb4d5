package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is an opaque key-value store. Get returns nil for a missing key.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// MemoryBackend keeps values in memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// FileBackend stores each key in its own file under a directory.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates a FileBackend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileBackend) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Put replaces the value atomically.
func (f *FileBackend) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dst := f.path(key)
	tmp := dst + ".tmp"

	fh, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := fh.Write(value); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dst)
}
