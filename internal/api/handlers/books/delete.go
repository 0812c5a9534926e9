package books

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

func del(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathInt(r, "id")
		if err != nil {
			apperr.BadRequest(w, r, err.Error())
			return
		}

		if err := store.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, messageResponse{Message: msgDeleted})
	}
}
