package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/restockd/restockd/internal/models"
)

// FileStore keeps the product list in a JSON array on disk, preserving
// insertion order. Writes go through a temp file and rename so a crash
// mid-save never corrupts the list.
type FileStore struct {
	mu       sync.RWMutex
	products []*models.Product
	filename string
}

func NewFileStore(filename string) (*FileStore, error) {
	fs := &FileStore{filename: filename}

	if err := fs.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	return fs, nil
}

func (fs *FileStore) Add(_ context.Context, p *models.Product) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.indexOf(p.URL) >= 0 {
		return ErrExists
	}

	fs.products = append(fs.products, p)
	return fs.save()
}

func (fs *FileStore) Get(_ context.Context, url string) (*models.Product, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	i := fs.indexOf(url)
	if i < 0 {
		return nil, ErrNotFound
	}

	clone := *fs.products[i]
	return &clone, nil
}

func (fs *FileStore) List(_ context.Context) ([]*models.Product, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make([]*models.Product, len(fs.products))
	for i, p := range fs.products {
		clone := *p
		out[i] = &clone
	}
	return out, nil
}

func (fs *FileStore) Update(_ context.Context, p *models.Product) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.indexOf(p.URL)
	if i < 0 {
		return ErrNotFound
	}

	clone := *p
	fs.products[i] = &clone
	return fs.save()
}

func (fs *FileStore) Remove(_ context.Context, url string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i := fs.indexOf(url)
	if i < 0 {
		return ErrNotFound
	}

	fs.products = append(fs.products[:i], fs.products[i+1:]...)
	return fs.save()
}

// indexOf must be called with the lock held.
func (fs *FileStore) indexOf(url string) int {
	for i, p := range fs.products {
		if p.URL == url {
			return i
		}
	}
	return -1
}

func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.products, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := fs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, fs.filename)
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &fs.products)
}
