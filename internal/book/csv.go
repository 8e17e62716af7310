package book

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var csvHeader = []string{"BookID", "Title", "Author", "Genre", "PublishedYear", "Price"}

// ReadCSV parses a catalog file. The first record is the header. Malformed rows
// are logged and skipped.
func ReadCSV(r io.Reader, logger *slog.Logger) ([]Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var books []Book
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping unparsable catalog line", "line", perr.Line, "error", perr.Err)
				continue
			}
			return nil, err
		}
		if header {
			header = false
			continue
		}

		b, ok := parseRecord(rec)
		if !ok {
			line, _ := cr.FieldPos(0)
			logger.Warn("skipping malformed catalog line", "line", line, "record", strings.Join(rec, ","))
			continue
		}
		books = append(books, b)
	}
	return books, nil
}

func parseRecord(rec []string) (Book, bool) {
	if len(rec) < len(csvHeader) {
		return Book{}, false
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return Book{}, false
	}
	year, err := strconv.Atoi(rec[4])
	if err != nil {
		return Book{}, false
	}
	price, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return Book{}, false
	}
	return Book{
		ID:            id,
		Title:         rec[1],
		Author:        rec[2],
		Genre:         rec[3],
		PublishedYear: year,
		Price:         price,
	}, true
}

func WriteCSV(w io.Writer, books []Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range books {
		if err := cw.Write([]string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			b.Genre,
			strconv.Itoa(b.PublishedYear),
			strconv.FormatFloat(b.Price, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
