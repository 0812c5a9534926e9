package books

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/httpx"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

func random(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.Random(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, b)
	}
}

// randomSample answers with a bare JSON array; a non-positive count yields [].
func randomSample(store storebooks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := pathInt(r, "count")
		if err != nil {
			apperr.BadRequest(w, r, err.Error())
			return
		}

		sample, err := store.RandomSample(r.Context(), int(count))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OK(w, sample)
	}
}
