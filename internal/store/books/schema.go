package books

import (
	"context"
	"database/sql"
)

// Oversized values fail with SQLSTATE 22001 and surface as 400.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS books (
	id     BIGSERIAL PRIMARY KEY,
	title  VARCHAR(100) NOT NULL,
	author VARCHAR(100) NOT NULL,
	genre  VARCHAR(50)
)`

// EnsureSchema creates the books table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
