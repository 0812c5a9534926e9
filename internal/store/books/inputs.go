package books

import (
	"fmt"

	"github.com/5w1tchy/book-catalog/internal/models"
	"github.com/5w1tchy/book-catalog/internal/validate"
)

// cleanAll validates a batch up front so nothing is written when one item is bad.
func cleanAll(in []models.BookInput) ([]models.BookInput, error) {
	out := make([]models.BookInput, len(in))
	for i, b := range in {
		c, err := validate.BookInput(b)
		if err != nil {
			return nil, fmt.Errorf("book %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
