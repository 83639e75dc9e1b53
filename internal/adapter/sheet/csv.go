package sheet

import (
	"encoding/csv"
	"io"
)

type csvLines struct {
	r *csv.Reader
}

// NewCSVSource reads comma separated rows from r.
func NewCSVSource(r io.Reader, opts Options) *Source {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	return newSource(&csvLines{r: cr}, opts)
}

func (c *csvLines) next() (int, []string, error) {
	record, err := c.r.Read()
	if err != nil {
		return 0, nil, err
	}
	line, _ := c.r.FieldPos(0)
	return line, record, nil
}

func (c *csvLines) close() error { return nil }
