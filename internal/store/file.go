package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"inv-go/internal/inv"
)

// FileStore keeps all keys in a single JSON document on disk:
//
//	{"<key>": <value>, ...}
//
// Values must themselves be JSON. Every write replaces the whole file
// atomically (temp file + rename).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore backed by path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, raw, err := s.read()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		// Hand back the unreadable document so the caller treats it as a
		// corrupt value instead of a broken medium.
		return raw, nil
	}
	v, ok := doc[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *FileStore) Put(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("writing %s: value is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.read()
	if err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	doc[key] = json.RawMessage(value)
	return s.write(doc)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.read()
	if err != nil {
		return err
	}
	if doc == nil {
		return s.write(map[string]json.RawMessage{})
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.write(doc)
}

func (s *FileStore) Close() error { return nil }

// read parses the store file. An unparseable file yields a nil document and
// its raw contents; the next write replaces it.
func (s *FileStore) read() (map[string]json.RawMessage, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil, nil
		}
		return nil, nil, fmt.Errorf("reading store file: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, data, nil
	}
	return doc, nil, nil
}

// write replaces the store file using atomic write (temp file + rename).
func (s *FileStore) write(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileStore implements inv.Store
var _ inv.Store = (*FileStore)(nil)
