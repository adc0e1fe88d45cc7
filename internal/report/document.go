package report

import (
	"strconv"
)

// Kind names a report type. The values double as the URL endpoint names.
type Kind string

const (
	KindRolling Kind = "rolling-five-days"
	KindTotals  Kind = "total-data"
)

// Source dataset titles per report kind
const (
	RollingTitle = "5-Day Covid-19 Report"
	TotalsTitle  = "Aggregated Covid-19 Report"
)

// ParseKind maps an endpoint name to its Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRolling, KindTotals:
		return Kind(s), true
	}
	return "", false
}

// Metadata is the static header of every report
type Metadata struct {
	SourceDataset   string `json:"Source Dataset"`
	SourceSystem    string `json:"Source System"`
	LastRefreshDate string `json:"Last Source Data refresh date"`
	UpdateFrequency string `json:"Source Data update frequency"`
	SourceContact   string `json:"Source contact"`
	HouseKeeping    string `json:"House keeping"`
}

// Reconciliation lets a consumer check the records it received
type Reconciliation struct {
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	TotalCases   int64  `json:"totalCases"`
	TotalDeaths  int64  `json:"totalDeaths"`
	TotalRecords int    `json:"totalRecords"`
}

// DayRecord is one row of a rolling report
type DayRecord struct {
	DateRep string `json:"dateRep"`
	Day     int    `json:"day"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Cases   int64  `json:"cases"`
	Deaths  int64  `json:"deaths"`
}

// CountryRecord is one row of a totals report
type CountryRecord struct {
	CountryCode string `json:"countryterritoryCode"`
	TotalCases  int64  `json:"totalCases"`
	TotalDeaths int64  `json:"totalDeaths"`
}

// Field is a labelled value used by the tabular exports
type Field struct {
	Key   string
	Value string
}

// Table is the records section of a report flattened to text cells
type Table struct {
	Headers []string
	Rows    [][]string
}

// Document is a report ready to be serialised
type Document interface {
	Kind() Kind
	// Table returns the records as rows of text
	Table() Table
	// Summary returns metadata and reconciliation as ordered fields
	Summary() []Field
}

// RollingDocument is the five-day report for one country
type RollingDocument struct {
	Metadata
	GeoID          string         `json:"geoId"`
	CountryCode    string         `json:"countryterritoryCode"`
	Country        string         `json:"country"`
	Continent      string         `json:"continent"`
	Reconciliation Reconciliation `json:"Reconciliation Record"`
	Records        []DayRecord    `json:"records"`
}

func (d *RollingDocument) Kind() Kind { return KindRolling }

func (d *RollingDocument) Table() Table {
	t := Table{Headers: []string{"dateRep", "day", "month", "year", "cases", "deaths"}}
	for _, r := range d.Records {
		t.Rows = append(t.Rows, []string{
			r.DateRep,
			strconv.Itoa(r.Day),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			strconv.FormatInt(r.Cases, 10),
			strconv.FormatInt(r.Deaths, 10),
		})
	}
	return t
}

func (d *RollingDocument) Summary() []Field {
	fields := d.Metadata.fields()
	fields = append(fields,
		Field{"geoId", d.GeoID},
		Field{"countryterritoryCode", d.CountryCode},
		Field{"country", d.Country},
		Field{"continent", d.Continent},
	)
	return append(fields, d.Reconciliation.fields()...)
}

// TotalsDocument is the per-country lifetime report
type TotalsDocument struct {
	Metadata
	Reconciliation Reconciliation  `json:"Reconciliation Record"`
	Records        []CountryRecord `json:"records"`
}

func (d *TotalsDocument) Kind() Kind { return KindTotals }

func (d *TotalsDocument) Table() Table {
	t := Table{Headers: []string{"countryterritoryCode", "totalCases", "totalDeaths"}}
	for _, r := range d.Records {
		t.Rows = append(t.Rows, []string{
			r.CountryCode,
			strconv.FormatInt(r.TotalCases, 10),
			strconv.FormatInt(r.TotalDeaths, 10),
		})
	}
	return t
}

func (d *TotalsDocument) Summary() []Field {
	return append(d.Metadata.fields(), d.Reconciliation.fields()...)
}

func (m Metadata) fields() []Field {
	return []Field{
		{"Source Dataset", m.SourceDataset},
		{"Source System", m.SourceSystem},
		{"Last Source Data refresh date", m.LastRefreshDate},
		{"Source Data update frequency", m.UpdateFrequency},
		{"Source contact", m.SourceContact},
		{"House keeping", m.HouseKeeping},
	}
}

func (r Reconciliation) fields() []Field {
	var fields []Field
	if r.StartDate != "" {
		fields = append(fields, Field{"startDate", r.StartDate})
	}
	if r.EndDate != "" {
		fields = append(fields, Field{"endDate", r.EndDate})
	}
	return append(fields,
		Field{"totalCases", strconv.FormatInt(r.TotalCases, 10)},
		Field{"totalDeaths", strconv.FormatInt(r.TotalDeaths, 10)},
		Field{"totalRecords", strconv.Itoa(r.TotalRecords)},
	)
}
