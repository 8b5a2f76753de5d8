package catalogue

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fragrancefinder/backend/internal/domain"
)

// CSVSource loads the catalogue from a comma separated file with a header row
type CSVSource struct {
	path string
}

// NewCSVSource creates a catalogue source reading path
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name identifies the source in logs
func (s *CSVSource) Name() string { return "csv:" + s.path }

// Load reads every row of the file. A missing file or column is an ErrCatalogueLoad.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Perfume, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueLoad, err)
	}
	defer f.Close()

	perfumes, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOGUE] Loaded %d perfumes from %s", len(perfumes), s.path)
	return perfumes, nil
}

// ReadCSV parses a catalogue from r
func ReadCSV(ctx context.Context, r io.Reader) ([]domain.Perfume, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrCatalogueLoad)
		}
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrCatalogueLoad, err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var perfumes []domain.Perfume
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrCatalogueLoad, len(perfumes)+1, err)
		}
		perfumes = append(perfumes, MapToPerfume(len(perfumes), row, cols))
	}

	return perfumes, nil
}

// indexColumns locates the catalogue columns in the header row
func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrCatalogueLoad, strings.Join(missing, ", "))
	}
	return cols, nil
}
