package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/5w1tchy/book-catalog/internal/config"
	"github.com/5w1tchy/book-catalog/internal/models"
	"github.com/5w1tchy/book-catalog/internal/repository/sqlconnect"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "JSON array of {title, author, genre} to insert instead of the built-in list")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StoreDriver != config.DriverPostgres {
		log.Fatalf("seed needs STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
	}

	inputs := sampleBooks()
	if *file != "" {
		if inputs, err = readInputs(*file); err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL, sqlconnect.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := storebooks.NewSQLStore(db)
	defer store.Close()

	if err := storebooks.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	log.Printf("Inserting %d books...", len(inputs))
	created, err := store.CreateMany(ctx, inputs)
	if err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}
	log.Printf("Successfully inserted %d books!", len(created))

	all, err := store.List(ctx)
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	log.Printf("Total books in database: %d", len(all))
}

func readInputs(path string) ([]models.BookInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in []models.BookInput
	if err := json.NewDecoder(f).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return in, nil
}

func sampleBooks() []models.BookInput {
	genre := func(s string) *string { return &s }
	return []models.BookInput{
		{Title: "Dune", Author: "Frank Herbert", Genre: genre("Science Fiction")},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: genre("Science Fiction")},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: genre("Romance")},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: genre("Mystery")},
		{Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez", Genre: genre("Fiction")},
		{Title: "Sapiens", Author: "Yuval Noah Harari", Genre: genre("History")},
		{Title: "The Selfish Gene", Author: "Richard Dawkins", Genre: genre("Science")},
		{Title: "Meditations", Author: "Marcus Aurelius", Genre: genre("Philosophy")},
		{Title: "The Story of Art", Author: "E. H. Gombrich", Genre: genre("Art")},
		{Title: "Beloved", Author: "Toni Morrison"},
	}
}
