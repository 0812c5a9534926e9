package router

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/handlers/books"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
)

const readyTimeout = 2 * time.Second

func Router(store storebooks.Store) http.Handler {
	mux := http.NewServeMux()

	// Probes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Printf("[readyz] store ping failed: %v", err)
			apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Service Unavailable", "store not reachable")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ready"))
	})

	// Books
	books.Register(mux, store)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// an empty pattern means the mux answers 404/405 itself
		if _, pattern := mux.Handler(r); pattern == "" {
			mux.ServeHTTP(&problemWriter{ResponseWriter: w, r: r}, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// problemWriter swaps the mux's plain-text 404/405 bodies for problem JSON.
// Headers the mux already set, such as Allow, are kept.
type problemWriter struct {
	http.ResponseWriter
	r        *http.Request
	replaced bool
}

func (pw *problemWriter) WriteHeader(code int) {
	switch code {
	case http.StatusNotFound:
		pw.replaced = true
		apperr.NotFound(pw.ResponseWriter, pw.r, "no route for "+pw.r.Method+" "+pw.r.URL.Path)
	case http.StatusMethodNotAllowed:
		pw.replaced = true
		apperr.WriteStatus(pw.ResponseWriter, pw.r, code, "Method Not Allowed", "method "+pw.r.Method+" not allowed on "+pw.r.URL.Path)
	default:
		pw.ResponseWriter.WriteHeader(code)
	}
}

func (pw *problemWriter) Write(b []byte) (int, error) {
	if pw.replaced {
		return len(b), nil
	}
	return pw.ResponseWriter.Write(b)
}
