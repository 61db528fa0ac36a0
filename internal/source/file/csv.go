package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// CSVReader reads header-keyed evaluation rows. Rows whose field count does
// not match the header are skipped and reported together once the whole
// input has been read.
type CSVReader struct {
	reader io.Reader
	name   string
}

func NewCSVReader(reader io.Reader, name string) *CSVReader {
	return &CSVReader{
		reader: reader,
		name:   name,
	}
}

// Read returns every well-formed row. When some rows were malformed the good
// rows are returned together with a *apperr.ParseError.
func (cr *CSVReader) Read() ([]domain.RawRow, error) {
	csvReader := csv.NewReader(cr.reader)
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.NewParse(cr.name, []apperr.RowError{{Line: 1, Err: errors.New("missing header row")}})
		}
		return nil, fmt.Errorf("reading header of %s: %w", cr.name, err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []domain.RawRow
	var rowErrs []apperr.RowError
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rowErrs = append(rowErrs, apperr.RowError{Line: pe.StartLine, Err: pe.Err})
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", cr.name, err)
		}

		if len(record) != len(headers) {
			line, _ := csvReader.FieldPos(0)
			rowErrs = append(rowErrs, apperr.RowError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(headers), len(record)),
			})
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			fields[h] = record[i]
		}
		rows = append(rows, domain.RawRowFromStrings(fields))
	}

	if len(rowErrs) > 0 {
		return rows, apperr.NewParse(cr.name, rowErrs)
	}
	return rows, nil
}
