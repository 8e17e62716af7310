package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		out   string
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Write a sample catalog CSV",
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
			if out == "" {
				out = os.Getenv("CATALOG_CSV")
			}
			if out == "" {
				out = "data/books.csv"
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			books := generate(count, rand.New(rand.NewPCG(seed, seed)))
			if err := writeCatalog(out, books); err != nil {
				return err
			}
			slog.Info("catalog written", "path", out, "books", len(books))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default $CATALOG_CSV or data/books.csv)")
	cmd.Flags().IntVarP(&count, "count", "n", 50, "number of books to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

var (
	classics = []book.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic", PublishedYear: 1813},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937},
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949},
		{Title: "Moby-Dick", Author: "Herman Melville", Genre: "Classic", PublishedYear: 1851},
		{Title: "Neuromancer", Author: "William Gibson", Genre: "Science Fiction", PublishedYear: 1984},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery", PublishedYear: 1980},
		{Title: "Beloved", Author: "Toni Morrison", Genre: "Fiction", PublishedYear: 1987},
	}
	genres  = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	authors = []string{"A. Writer", "B. Novelist", "C. Historian", "D. Scientist", "E. Poet", "F. Essayist"}
	words   = []string{"Silent", "Hidden", "Last", "Golden", "Broken", "Distant", "River", "Garden", "Empire", "Letters", "Night", "Voyage"}
)

func generate(count int, rng *rand.Rand) []book.Book {
	books := make([]book.Book, 0, count)
	for i := 0; i < count; i++ {
		var b book.Book
		if i < len(classics) {
			b = classics[i]
		} else {
			b = book.Book{
				Title:         fmt.Sprintf("The %s %s", words[rng.IntN(len(words))], words[rng.IntN(len(words))]),
				Author:        authors[rng.IntN(len(authors))],
				Genre:         genres[rng.IntN(len(genres))],
				PublishedYear: 1900 + rng.IntN(126),
			}
		}
		b.ID = i + 1
		b.Price = float64(500+rng.IntN(4500)) / 100
		books = append(books, b)
	}
	return books
}

func writeCatalog(path string, books []book.Book) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}
	if err := book.WriteCSV(f, books); err != nil {
		_ = f.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	return f.Close()
}
