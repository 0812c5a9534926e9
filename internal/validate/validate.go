package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/5w1tchy/book-catalog/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column widths of the books table.
const (
	MaxTitleLen  = 100
	MaxAuthorLen = 100
	MaxGenreLen  = 50
)

var ErrInvalid = errors.New("invalid")

// FieldError names the offending field. It matches ErrInvalid with errors.Is.
type FieldError struct {
	Field   string
	Code    string // "required" or "too_long"
	Message string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Message }

func (e *FieldError) Unwrap() error { return ErrInvalid }

// IsBlank reports whether s has no visible content once NFKC-folded:
// only whitespace, NUL bytes or zero-width format characters.
func IsBlank(s string) bool {
	// a Chain keeps buffers, so build one per call
	fold := transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cf)))
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(StripNUL(folded)) == ""
}

// StripNUL drops NUL bytes, which PostgreSQL text columns reject.
func StripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// Required fails when s is blank. Otherwise it returns s without NUL bytes
// and leaves everything else as submitted.
func Required(name, s string) (string, error) {
	if IsBlank(s) {
		return "", &FieldError{Field: name, Code: "required", Message: "is required"}
	}
	return StripNUL(s), nil
}

// MaxLen fails when s holds more than n characters.
func MaxLen(name, s string, n int) error {
	if utf8.RuneCountInString(s) > n {
		return &FieldError{Field: name, Code: "too_long", Message: fmt.Sprintf("must be at most %d characters", n)}
	}
	return nil
}

// BookInput checks in and returns the copy to store. Title and author must
// be non-blank; every field must fit its column.
func BookInput(in models.BookInput) (models.BookInput, error) {
	title, err := Required("title", in.Title)
	if err != nil {
		return models.BookInput{}, err
	}
	if err := MaxLen("title", title, MaxTitleLen); err != nil {
		return models.BookInput{}, err
	}
	author, err := Required("author", in.Author)
	if err != nil {
		return models.BookInput{}, err
	}
	if err := MaxLen("author", author, MaxAuthorLen); err != nil {
		return models.BookInput{}, err
	}

	out := models.BookInput{Title: title, Author: author}
	if in.Genre != nil {
		g := StripNUL(*in.Genre)
		if err := MaxLen("genre", g, MaxGenreLen); err != nil {
			return models.BookInput{}, err
		}
		out.Genre = &g
	}
	return out, nil
}
