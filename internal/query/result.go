package query

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the requested country
	ErrNotFound = errors.New("no records for country")
	// ErrEmptyDataset is returned when an aggregate is requested over no records
	ErrEmptyDataset = errors.New("dataset is empty")
)

// WindowDays is the number of calendar days covered by RollingWindow,
// counting the latest day.
const WindowDays = 5

// Reconciliation summarises a query result. StartDate and EndDate are
// DD/MM/YYYY and only set for rolling windows.
type Reconciliation struct {
	StartDate    string
	EndDate      string
	TotalCases   int64
	TotalDeaths  int64
	TotalRecords int
}

// DayEntry is one day of a rolling window
type DayEntry struct {
	Date    time.Time
	DateRep string
	Day     int
	Month   int
	Year    int
	Cases   int64
	Deaths  int64
}

// WindowResult is the outcome of RollingWindow. Days are in ascending
// date order.
type WindowResult struct {
	CountryCode    string
	GeoID          string
	CountryName    string
	Continent      string
	LatestDate     time.Time
	Days           []DayEntry
	Reconciliation Reconciliation
}

// CountryTotal holds lifetime counts for one country
type CountryTotal struct {
	CountryCode string
	TotalCases  int64
	TotalDeaths int64
}

// TotalsResult is the outcome of TotalsByCountry. Countries are in
// ascending country code order.
type TotalsResult struct {
	Countries      []CountryTotal
	Reconciliation Reconciliation
}
