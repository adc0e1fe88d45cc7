package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Source column names fixed by the ECDC data contract
const (
	ColDateRep     = "dateRep"
	ColDay         = "day"
	ColMonth       = "month"
	ColYear        = "year"
	ColCases       = "cases"
	ColDeaths      = "deaths"
	ColCountryCode = "countryterritoryCode"
	ColGeoID       = "geoId"
	ColCountryName = "countriesAndTerritories"
	ColContinent   = "continentExp"
)

// RequiredColumns lists every header the loader insists on
var RequiredColumns = []string{
	ColDateRep, ColDay, ColMonth, ColYear, ColCases, ColDeaths,
	ColCountryCode, ColGeoID, ColCountryName, ColContinent,
}

// DateLayout is the day-first layout used by dateRep
const DateLayout = "02/01/2006"

// Record is one country/day observation.
//
// Date is the zero time until Clean parses DateRep. CasesMissing and
// DeathsMissing mark empty source cells; Clean replaces them with 0.
type Record struct {
	DateRep string
	Date    time.Time

	Day   int
	Month int
	Year  int

	Cases         int64
	Deaths        int64
	CasesMissing  bool
	DeathsMissing bool

	CountryCode string
	GeoID       string
	CountryName string
	Continent   string
}

// HasDate reports whether the record carries a parsed observation date
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// key identifies a record by every field, for duplicate detection
func (r Record) key() string {
	var b strings.Builder
	for _, field := range []string{
		r.DateRep,
		r.Date.Format(time.DateOnly),
		strconv.Itoa(r.Day),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Year),
		strconv.FormatInt(r.Cases, 10),
		strconv.FormatInt(r.Deaths, 10),
		strconv.FormatBool(r.CasesMissing),
		strconv.FormatBool(r.DeathsMissing),
		r.CountryCode,
		r.GeoID,
		r.CountryName,
		r.Continent,
	} {
		b.WriteString(strconv.Quote(field))
		b.WriteByte(',')
	}
	return b.String()
}

// Dataset is an ordered collection of records loaded for one request
type Dataset struct {
	Records []Record
}

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d.Records)
}

// IsEmpty reports whether the dataset holds no records
func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}
