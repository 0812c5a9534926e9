package books

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
	"github.com/5w1tchy/book-catalog/internal/api/middlewares"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

var errBodyTooLarge = errors.New("request body too large")

func pathInt(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON: trailing data after body")
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large", err.Error())
		return
	}
	apperr.BadRequest(w, r, err.Error())
}

// writeError turns a store or validation error into the matching problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *validate.FieldError
	switch {
	case errors.Is(err, storebooks.ErrNotFound):
		apperr.NotFound(w, r, "book not found")
	case errors.Is(err, storebooks.ErrEmpty):
		apperr.NotFound(w, r, "no books available")
	case errors.As(err, &fe):
		apperr.Write(w, r, apperr.Problem{
			Status:      http.StatusBadRequest,
			Title:       "Bad Request",
			Detail:      err.Error(),
			FieldErrors: []apperr.FieldError{{Field: fe.Field, Code: fe.Code, Message: fe.Message}},
		})
	default:
		log.Printf("[books] RequestID=%s %s %s: %v", middlewares.GetRequestID(r), r.Method, r.URL.Path, err)
		apperr.HandleDBError(w, r, err, "DB error")
	}
}
