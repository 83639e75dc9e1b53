package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxLines struct {
	file *excelize.File
	rows *excelize.Rows
	line int
}

// NewXLSXSource streams the first worksheet of the workbook in r.
func NewXLSXSource(r io.Reader, opts Options) (*Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrNoHeading
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}

	return newSource(&xlsxLines{file: f, rows: rows}, opts), nil
}

func (x *xlsxLines) next() (int, []string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return 0, nil, err
		}
		return 0, nil, io.EOF
	}
	x.line++

	cells, err := x.rows.Columns()
	if err != nil {
		return 0, nil, err
	}
	return x.line, cells, nil
}

func (x *xlsxLines) close() error {
	rowsErr := x.rows.Close()
	if err := x.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
