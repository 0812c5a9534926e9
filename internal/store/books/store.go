// Package books is the record store for the books table.
package books

import (
	"context"
	"errors"

	"github.com/5w1tchy/book-catalog/internal/models"
)

var (
	ErrNotFound = errors.New("book not found")
	ErrEmpty    = errors.New("no books available")
)

// Store is the persistence contract the HTTP layer depends on.
type Store interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	// Random returns ErrEmpty when there are no rows.
	Random(ctx context.Context) (models.Book, error)
	// RandomSample returns min(count, rows) distinct books; count <= 0 yields none.
	RandomSample(ctx context.Context, count int) ([]models.Book, error)
	Create(ctx context.Context, in models.BookInput) (models.Book, error)
	// CreateMany persists every input or none of them.
	CreateMany(ctx context.Context, in []models.BookInput) ([]models.Book, error)
	Update(ctx context.Context, id int64, in models.BookInput) (models.Book, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
