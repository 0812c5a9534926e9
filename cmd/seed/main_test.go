package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSampleBooks_AreValid(t *testing.T) {
	books := sampleBooks()
	if len(books) == 0 {
		t.Fatal("expected built-in sample books")
	}
	for i, b := range books {
		if b.Title == "" || b.Author == "" {
			t.Errorf("sample %d missing title or author: %+v", i, b)
		}
	}
}

func TestReadInputs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "books.json")
	data := `[{"title":"Dune","author":"Herbert","genre":"SF"},{"title":"Emma","author":"Austen"}]`
	if err := os.WriteFile(p, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	in, err := readInputs(p)
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	if len(in) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(in))
	}
	if in[0].Genre == nil || *in[0].Genre != "SF" {
		t.Errorf("expected genre SF, got %v", in[0].Genre)
	}
	if in[1].Genre != nil {
		t.Errorf("expected nil genre, got %q", *in[1].Genre)
	}
}

func TestReadInputs_Errors(t *testing.T) {
	if _, err := readInputs(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte(`{"title":"not an array"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readInputs(p); err == nil {
		t.Error("expected decode error")
	}
}
