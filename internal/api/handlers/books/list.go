package books

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

func list(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := store.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, listResponse{Books: all})
	}
}
