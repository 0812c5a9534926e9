package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/5w1tchy/book-catalog/internal/models"
	"github.com/5w1tchy/book-catalog/internal/store/dbx"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

const (
	qList         = `SELECT id, title, author, genre FROM books ORDER BY id`
	qGet          = `SELECT id, title, author, genre FROM books WHERE id = $1`
	qRandom       = `SELECT id, title, author, genre FROM books ORDER BY random() LIMIT 1`
	qRandomSample = `SELECT id, title, author, genre FROM books ORDER BY random() LIMIT $1`
	qInsert       = `INSERT INTO books (title, author, genre) VALUES ($1, $2, $3) RETURNING id`
	qUpdate       = `UPDATE books SET title = $1, author = $2, genre = $3 WHERE id = $4 RETURNING id, title, author, genre`
	qDelete       = `DELETE FROM books WHERE id = $1`
)

// SQLStore keeps books in PostgreSQL through database/sql.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) List(ctx context.Context) ([]models.Book, error) {
	out, err := queryBooks(ctx, s.db, qList)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (models.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx, qGet, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (s *SQLStore) Random(ctx context.Context) (models.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx, qRandom))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrEmpty
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("random book: %w", err)
	}
	return b, nil
}

func (s *SQLStore) RandomSample(ctx context.Context, count int) ([]models.Book, error) {
	if count <= 0 {
		return []models.Book{}, nil
	}
	out, err := queryBooks(ctx, s.db, qRandomSample, count)
	if err != nil {
		return nil, fmt.Errorf("random sample: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Create(ctx context.Context, in models.BookInput) (models.Book, error) {
	in, err := validate.BookInput(in)
	if err != nil {
		return models.Book{}, err
	}
	b, err := insertBook(ctx, s.db, in)
	if err != nil {
		return models.Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (s *SQLStore) CreateMany(ctx context.Context, in []models.BookInput) ([]models.Book, error) {
	clean, err := cleanAll(in)
	if err != nil {
		return nil, err
	}
	if len(clean) == 0 {
		return []models.Book{}, nil
	}

	out := make([]models.Book, 0, len(clean))
	err = dbx.WithinTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(tx *sql.Tx) error {
		for _, b := range clean {
			created, err := insertBook(ctx, tx, b)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create books: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Update(ctx context.Context, id int64, in models.BookInput) (models.Book, error) {
	in, err := validate.BookInput(in)
	if err != nil {
		return models.Book{}, err
	}
	b, err := scanBook(s.db.QueryRowContext(ctx, qUpdate, in.Title, in.Author, dbx.NullString(in.Genre), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return b, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, qDelete, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var b models.Book
	var genre sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &genre); err != nil {
		return models.Book{}, err
	}
	b.Genre = dbx.StringPtr(genre)
	return b, nil
}

func queryBooks(ctx context.Context, q dbx.Queryer, query string, args ...any) ([]models.Book, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func insertBook(ctx context.Context, q dbx.Queryer, in models.BookInput) (models.Book, error) {
	var id int64
	if err := q.QueryRowContext(ctx, qInsert, in.Title, in.Author, dbx.NullString(in.Genre)).Scan(&id); err != nil {
		return models.Book{}, err
	}
	return models.Book{ID: id, Title: in.Title, Author: in.Author, Genre: in.Genre}, nil
}
