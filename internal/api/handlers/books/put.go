package books

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	"github.com/5w1tchy/book-catalog/internal/models"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

// put replaces title, author and genre; an omitted genre is cleared.
func put(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt(r, "id")
		if err != nil {
			apperr.BadRequest(w, r, err.Error())
			return
		}

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

		b, err := store.Update(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, messageResponse{Message: msgUpdated, Book: &b})
	}
}
