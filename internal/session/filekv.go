package session

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("not found")

// FileKV is a durable string key-value map kept as one JSON object on disk.
// Every write rewrites the whole file and syncs it.
type FileKV struct {
	mu   sync.RWMutex
	file *os.File
	data map[string]string
	// discarded holds the decode error when unreadable contents were dropped.
	discarded error
}

func OpenFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	kv := &FileKV{file: f}
	if err := kv.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) Close() error { return kv.file.Close() }

func (kv *FileKV) load() error {
	info, err := kv.file.Stat()
	if err != nil {
		return err
	}
	kv.data = map[string]string{}
	if info.Size() == 0 {
		return nil
	}
	var data map[string]string
	if err := json.NewDecoder(kv.file).Decode(&data); err != nil {
		// start empty; the next write replaces the unreadable file
		kv.discarded = err
		return nil
	}
	if data != nil {
		kv.data = data
	}
	return nil
}

// Discarded reports why the file contents were dropped on open, or nil.
func (kv *FileKV) Discarded() error { return kv.discarded }

func (kv *FileKV) flushLocked() error {
	if _, err := kv.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(kv.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kv.data); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := kv.file.Seek(0, io.SeekCurrent)
	if err := kv.file.Truncate(pos); err != nil {
		return err
	}
	return kv.file.Sync()
}

func (kv *FileKV) Get(key string) (string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (kv *FileKV) Put(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return kv.flushLocked()
}

func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.data[key]; !ok {
		return nil
	}
	delete(kv.data, key)
	return kv.flushLocked()
}
