package book

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// MemoryRepo keeps the catalog in memory. When bound to a CSV file it loads the
// file once and rewrites it after every mutation.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  []Book
	nextID int
	path   string
	logger *slog.Logger
}

func NewMemoryRepo(logger *slog.Logger, seed ...Book) *MemoryRepo {
	if logger == nil {
		logger = slog.Default()
	}
	r := &MemoryRepo{nextID: 1, logger: logger}
	for _, b := range seed {
		r.books = append(r.books, b)
		r.nextID = max(r.nextID, b.ID+1)
	}
	return r
}

// OpenCSVRepo loads path into a new repo. A missing file yields an empty catalog.
func OpenCSVRepo(path string, logger *slog.Logger) (*MemoryRepo, error) {
	r := NewMemoryRepo(logger)
	r.path = path
	logger = r.logger

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("catalog csv not found, starting with an empty catalog", "path", path)
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	books, err := ReadCSV(f, logger)
	if err != nil {
		return nil, fmt.Errorf("read catalog csv: %w", err)
	}
	for _, b := range books {
		r.books = append(r.books, b)
		r.nextID = max(r.nextID, b.ID+1)
	}
	logger.Info("catalog loaded", "path", path, "books", len(r.books))
	return r, nil
}

func (r *MemoryRepo) indexOf(id int) int {
	return slices.IndexFunc(r.books, func(b Book) bool { return b.ID == id })
}

func (r *MemoryRepo) List(ctx context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.books), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	return r.books[i], nil
}

func (r *MemoryRepo) Create(ctx context.Context, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID
	r.nextID++
	r.books = append(r.books, b)
	r.persist()
	return b, nil
}

func (r *MemoryRepo) Update(ctx context.Context, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(b.ID)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	r.books[i] = b
	r.persist()
	return b, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.books = slices.Delete(r.books, i, i+1)
	r.persist()
	return nil
}

// persist rewrites the CSV file. Failures are logged; the in-memory catalog
// stays authoritative. Caller holds r.mu.
func (r *MemoryRepo) persist() {
	if r.path == "" {
		return
	}
	if err := writeFileAtomic(r.path, r.books); err != nil {
		r.logger.Error("failed to save catalog csv", "path", r.path, "error", err)
	}
}

func writeFileAtomic(path string, books []Book) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".books-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, books); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
