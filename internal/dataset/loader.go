package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptySource is returned when the stream has no header line
	ErrEmptySource = errors.New("dataset source is empty")
	// ErrMissingColumn is returned when a required header is absent
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned when a numeric cell cannot be parsed
	ErrInvalidValue = errors.New("invalid numeric value")
)

// LoadError describes why a raw source could not be turned into a Dataset.
// Line is the 1-based CSV line, or 0 when the failure is not tied to a row.
type LoadError struct {
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load dataset: line %d, column %s: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load dataset: line %d: %v", e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load dataset: %v: %s", e.Err, e.Column)
	default:
		return fmt.Sprintf("load dataset: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// columnIndex maps required column names to their position in the header
type columnIndex map[string]int

// Load parses a delimited stream with a header row into a Dataset.
// A header with no data rows yields an empty Dataset and no error.
func Load(r io.Reader) (Dataset, error) {
	reader := newCSVReader(r)

	header, err := reader.Read()
	if err != nil {
		return Dataset{}, headerError(err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return Dataset{}, err
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, rowError(err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, idx, line)
		if err != nil {
			return Dataset{}, err
		}
		records = append(records, rec)
	}

	return Dataset{Records: records}, nil
}

// Inspect reads only the header of a source and checks the required columns
// are present. It returns the header as found.
func Inspect(r io.Reader) ([]string, error) {
	reader := newCSVReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, headerError(err)
	}
	if _, err := indexHeader(header); err != nil {
		return nil, err
	}
	return header, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	// Spreadsheet exports often prefix the file with a UTF-8 BOM
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true
	return reader
}

func headerError(err error) error {
	if err == io.EOF {
		return &LoadError{Err: ErrEmptySource}
	}
	return rowError(err)
}

func rowError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &LoadError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &LoadError{Err: err}
}

func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &LoadError{Column: col, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

func parseRow(row []string, idx columnIndex, line int) (Record, error) {
	cell := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	rec := Record{
		DateRep:     cell(ColDateRep),
		CountryCode: cell(ColCountryCode),
		GeoID:       cell(ColGeoID),
		CountryName: cell(ColCountryName),
		Continent:   cell(ColContinent),
	}

	var err error
	if rec.Day, err = parseCalendarField(cell(ColDay)); err != nil {
		return Record{}, &LoadError{Line: line, Column: ColDay, Err: err}
	}
	if rec.Month, err = parseCalendarField(cell(ColMonth)); err != nil {
		return Record{}, &LoadError{Line: line, Column: ColMonth, Err: err}
	}
	if rec.Year, err = parseCalendarField(cell(ColYear)); err != nil {
		return Record{}, &LoadError{Line: line, Column: ColYear, Err: err}
	}

	if rec.Cases, rec.CasesMissing, err = parseCount(cell(ColCases)); err != nil {
		return Record{}, &LoadError{Line: line, Column: ColCases, Err: err}
	}
	if rec.Deaths, rec.DeathsMissing, err = parseCount(cell(ColDeaths)); err != nil {
		return Record{}, &LoadError{Line: line, Column: ColDeaths, Err: err}
	}

	return rec, nil
}

// parseCount parses a case or death cell. An empty cell is reported as
// missing. Integral floats such as "12.0" are accepted.
func parseCount(s string) (int64, bool, error) {
	if s == "" {
		return 0, true, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return int64(f), false, nil
}

func parseCalendarField(s string) (int, error) {
	v, missing, err := parseCount(s)
	if err != nil || missing {
		return 0, err
	}
	return int(v), nil
}
