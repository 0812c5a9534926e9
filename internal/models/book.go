package models

// Book is a single row of the books table. Genre is nil when unset and
// serializes as JSON null.
type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  *string `json:"genre"`
}

// BookInput carries the client-writable fields for create and update.
type BookInput struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  *string `json:"genre,omitempty"`
}
