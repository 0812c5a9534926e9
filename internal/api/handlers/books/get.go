package books

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

func get(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt(r, "id")
		if err != nil {
			apperr.BadRequest(w, r, err.Error())
			return
		}

		b, err := store.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, b)
	}
}
