// Package sheet reads bulk balance files (CSV or XLSX) into import rows.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iho/giftledger/internal/usecase"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format: use .csv or .xlsx")
	// ErrMissingColumn is returned when the heading row lacks a required column.
	ErrMissingColumn = errors.New("required column missing from heading row")
	// ErrNoHeading is returned when the file ends before the heading row.
	ErrNoHeading = errors.New("file has no heading row")
)

// Options control where the heading and the data start. Rows are 1-based.
type Options struct {
	HeadingRow int
	StartRow   int
	ChunkSize  int
}

// DefaultOptions reads a heading on the first line and data from the second.
func DefaultOptions() Options {
	return Options{HeadingRow: 1, StartRow: 2, ChunkSize: usecase.DefaultImportChunkSize}
}

func (o Options) normalized() Options {
	if o.HeadingRow < 1 {
		o.HeadingRow = 1
	}
	if o.StartRow <= o.HeadingRow {
		o.StartRow = o.HeadingRow + 1
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = usecase.DefaultImportChunkSize
	}
	return o
}

var columnAliases = map[string][]string{
	"reference":   {"reference", "card", "card_id", "uuid", "qr"},
	"amount":      {"amount", "monto"},
	"description": {"description", "descripcion", "descripción"},
	"location":    {"location", "branch", "sucursal"},
}

type columns struct {
	names                             []string
	reference, amount, desc, location int
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

func mapColumns(heading []string) (columns, error) {
	cols := columns{names: make([]string, len(heading)), reference: -1, amount: -1, desc: -1, location: -1}

	index := make(map[string]int, len(heading))
	for i, h := range heading {
		name := normalizeHeader(h)
		cols.names[i] = name
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}

	find := func(field string) int {
		for _, alias := range columnAliases[field] {
			if i, ok := index[alias]; ok {
				return i
			}
		}
		return -1
	}

	cols.reference = find("reference")
	cols.amount = find("amount")
	cols.desc = find("description")
	cols.location = find("location")

	if cols.reference < 0 {
		return cols, fmt.Errorf("%w: reference (one of %s)", ErrMissingColumn, strings.Join(columnAliases["reference"], ", "))
	}
	if cols.amount < 0 {
		return cols, fmt.Errorf("%w: amount (one of %s)", ErrMissingColumn, strings.Join(columnAliases["amount"], ", "))
	}
	return cols, nil
}

func (c columns) row(number int, cells []string) usecase.ImportRow {
	cell := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	raw := make(map[string]string, len(c.names))
	for i, name := range c.names {
		if name != "" {
			raw[name] = cell(i)
		}
	}

	return usecase.ImportRow{
		Number:      number,
		CardRef:     cell(c.reference),
		Amount:      cell(c.amount),
		Description: cell(c.desc),
		Location:    cell(c.location),
		Raw:         raw,
	}
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// lineReader yields one spreadsheet line at a time with its 1-based number.
// It returns io.EOF after the last line.
type lineReader interface {
	next() (int, []string, error)
	close() error
}

// Source is a usecase.RowSource over a spreadsheet.
type Source struct {
	lines lineReader
	opts  Options
	cols  *columns
}

func newSource(lines lineReader, opts Options) *Source {
	return &Source{lines: lines, opts: opts.normalized()}
}

// Open picks the reader from the file extension.
func Open(filename string, r io.Reader, opts Options) (*Source, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return NewCSVSource(r, opts), nil
	case ".xlsx":
		return NewXLSXSource(r, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// Next returns up to ChunkSize data rows, skipping blank lines.
func (s *Source) Next(ctx context.Context) ([]usecase.ImportRow, error) {
	if s.cols == nil {
		if err := s.readHeading(); err != nil {
			return nil, err
		}
	}

	chunk := make([]usecase.ImportRow, 0, s.opts.ChunkSize)
	for len(chunk) < s.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		number, cells, err := s.lines.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if number < s.opts.StartRow || blank(cells) {
			continue
		}

		chunk = append(chunk, s.cols.row(number, cells))
	}

	if len(chunk) == 0 {
		return nil, io.EOF
	}
	return chunk, nil
}

// Close releases the underlying reader.
func (s *Source) Close() error {
	return s.lines.close()
}

func (s *Source) readHeading() error {
	for {
		number, cells, err := s.lines.next()
		if errors.Is(err, io.EOF) {
			return ErrNoHeading
		}
		if err != nil {
			return err
		}
		if number < s.opts.HeadingRow {
			continue
		}
		if number > s.opts.HeadingRow {
			return ErrNoHeading
		}

		cols, err := mapColumns(cells)
		if err != nil {
			return err
		}
		s.cols = &cols
		return nil
	}
}
