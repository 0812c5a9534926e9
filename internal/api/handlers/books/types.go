package books

import "github.com/5w1tchy/book-catalog/internal/models"

const (
	msgAdded    = "Book added successfully!"
	msgAddedAll = "Books added successfully!"
	msgUpdated  = "Book updated successfully!"
	msgDeleted  = "Book deleted successfully!"
)

type listResponse struct {
	Books []models.Book `json:"books"`
}

type messageResponse struct {
	Message string       `json:"message"`
	Book    *models.Book `json:"book,omitempty"`
}

type batchResponse struct {
	Message string        `json:"message"`
	Books   []models.Book `json:"books"`
}
