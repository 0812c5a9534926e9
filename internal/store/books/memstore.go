package books

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/5w1tchy/book-catalog/internal/models"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

// MemStore is an in-process Store. Ids start at 1 and are never reused.
type MemStore struct {
	mu     sync.RWMutex
	rows   map[int64]models.Book
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[int64]models.Book), nextID: 1}
}

func (m *MemStore) List(_ context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(), nil
}

func (m *MemStore) Get(_ context.Context, id int64) (models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.rows[id]
	if !ok {
		return models.Book{}, ErrNotFound
	}
	return copyBook(b), nil
}

func (m *MemStore) Random(_ context.Context) (models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sortedLocked()
	if len(all) == 0 {
		return models.Book{}, ErrEmpty
	}
	return all[rand.IntN(len(all))], nil
}

func (m *MemStore) RandomSample(_ context.Context, count int) ([]models.Book, error) {
	if count <= 0 {
		return []models.Book{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sortedLocked()
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if count < len(all) {
		all = all[:count]
	}
	return all, nil
}

func (m *MemStore) Create(_ context.Context, in models.BookInput) (models.Book, error) {
	in, err := validate.BookInput(in)
	if err != nil {
		return models.Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(in), nil
}

func (m *MemStore) CreateMany(_ context.Context, in []models.BookInput) ([]models.Book, error) {
	clean, err := cleanAll(in)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Book, 0, len(clean))
	for _, b := range clean {
		out = append(out, m.insertLocked(b))
	}
	return out, nil
}

func (m *MemStore) Update(_ context.Context, id int64, in models.BookInput) (models.Book, error) {
	in, err := validate.BookInput(in)
	if err != nil {
		return models.Book{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.Book{}, ErrNotFound
	}
	b := models.Book{ID: id, Title: in.Title, Author: in.Author, Genre: in.Genre}
	m.rows[id] = b
	return copyBook(b), nil
}

func (m *MemStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *MemStore) Ping(_ context.Context) error { return nil }

func (m *MemStore) Close() error { return nil }

func (m *MemStore) insertLocked(in models.BookInput) models.Book {
	b := models.Book{ID: m.nextID, Title: in.Title, Author: in.Author, Genre: in.Genre}
	m.rows[b.ID] = b
	m.nextID++
	return copyBook(b)
}

func (m *MemStore) sortedLocked() []models.Book {
	out := make([]models.Book, 0, len(m.rows))
	for _, b := range m.rows {
		out = append(out, copyBook(b))
	}
	slices.SortFunc(out, func(a, b models.Book) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// copyBook detaches the genre pointer so callers cannot mutate stored rows.
func copyBook(b models.Book) models.Book {
	if b.Genre != nil {
		g := *b.Genre
		b.Genre = &g
	}
	return b
}
