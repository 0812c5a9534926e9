package books

import (
	"fmt"
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	"github.com/5w1tchy/book-catalog/internal/models"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

func create(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.BookInput
		if err := decodeJSON(r, &body); err != nil {
			writeDecodeError(w, r, err)
			return
		}
		in, err := validate.BookInput(body)
		if err != nil {
			writeError(w, r, err)
			return
		}

		b, err := store.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.Created(w, messageResponse{Message: msgAdded, Book: &b})
	}
}

// createMany inserts a JSON array of books in one transaction.
func createMany(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []models.BookInput
		if err := decodeJSON(r, &body); err != nil {
			writeDecodeError(w, r, err)
			return
		}
		if body == nil {
			apperr.BadRequest(w, r, "expected a JSON array")
			return
		}
		for i := range body {
			in, err := validate.BookInput(body[i])
			if err != nil {
				writeError(w, r, fmt.Errorf("book %d: %w", i, err))
				return
			}
			body[i] = in
		}

		created, err := store.CreateMany(r.Context(), body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if created == nil {
			created = []models.Book{}
		}
		httpx.Created(w, batchResponse{Message: msgAddedAll, Books: created})
	}
}
