package books

import (
	"net/http"

	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

// Register mounts the catalog routes on mux. /book/random wins over
// /book/{id} because literal segments are more specific.
func Register(mux *http.ServeMux, store storebooks.Store) {
	mux.Handle("GET /books", list(store))
	mux.Handle("POST /books", createMany(store))

	mux.Handle("GET /book/random", random(store))
	mux.Handle("GET /book/random/{count}", randomSample(store))

	mux.Handle("POST /book", create(store))
	mux.Handle("GET /book/{id}", get(store))
	mux.Handle("PUT /book/{id}", put(store))
	mux.Handle("DELETE /book/{id}", del(store))
}
