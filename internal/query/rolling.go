package query

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"covidreport/internal/dataset"
)

// RollingWindow returns the records of one country that fall within the
// WindowDays calendar days ending on that country's latest date.
//
// The country code match is exact and case sensitive. The window is anchored
// on the dataset, not the wall clock, so a stale dataset still produces a
// report. ErrNotFound is returned when the country has no records.
func RollingWindow(ds dataset.Dataset, countryCode string) (*WindowResult, error) {
	if ds.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, countryCode)
	}

	matches := newFrame(ds.Records).Filter(dataframe.F{
		Colname:    colCountryCode,
		Comparator: series.Eq,
		Comparando: countryCode,
	})
	if matches.Err != nil {
		return nil, fmt.Errorf("filter by country: %w", matches.Err)
	}
	if matches.Nrow() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, countryCode)
	}

	latest, err := time.Parse(time.DateOnly, matches.Col(colDate).MaxStr())
	if err != nil {
		return nil, fmt.Errorf("latest date: %w", err)
	}
	start := latest.AddDate(0, 0, -(WindowDays - 1))

	window := matches.Filter(dataframe.F{
		Colname:    colDate,
		Comparator: series.GreaterEq,
		Comparando: start.Format(time.DateOnly),
	}).Arrange(dataframe.Sort(colDate))
	if window.Err != nil {
		return nil, fmt.Errorf("select window: %w", window.Err)
	}

	days, err := dayEntries(window)
	if err != nil {
		return nil, err
	}

	result := &WindowResult{
		CountryCode: countryCode,
		LatestDate:  latest,
		Days:        days,
		Reconciliation: Reconciliation{
			StartDate:    start.Format(dataset.DateLayout),
			EndDate:      latest.Format(dataset.DateLayout),
			TotalRecords: len(days),
		},
	}
	for _, d := range days {
		result.Reconciliation.TotalCases += d.Cases
		result.Reconciliation.TotalDeaths += d.Deaths
	}

	if err := describeCountry(window, result); err != nil {
		return nil, err
	}
	return result, nil
}

func dayEntries(df dataframe.DataFrame) ([]DayEntry, error) {
	dates, err := stringColumn(df, colDate)
	if err != nil {
		return nil, err
	}
	dateReps, err := stringColumn(df, colDateRep)
	if err != nil {
		return nil, err
	}
	ints := make(map[string][]int, 5)
	for _, name := range []string{colDay, colMonth, colYear, colCases, colDeaths} {
		if ints[name], err = intColumn(df, name); err != nil {
			return nil, err
		}
	}

	entries := make([]DayEntry, df.Nrow())
	for i := range entries {
		date, err := time.Parse(time.DateOnly, dates[i])
		if err != nil {
			return nil, fmt.Errorf("row %d date: %w", i, err)
		}
		entries[i] = DayEntry{
			Date:    date,
			DateRep: dateReps[i],
			Day:     ints[colDay][i],
			Month:   ints[colMonth][i],
			Year:    ints[colYear][i],
			Cases:   int64(ints[colCases][i]),
			Deaths:  int64(ints[colDeaths][i]),
		}
	}
	return entries, nil
}

// describeCountry copies the descriptive fields of the first window row
func describeCountry(df dataframe.DataFrame, result *WindowResult) error {
	fields := map[string]*string{
		colGeoID:       &result.GeoID,
		colCountryName: &result.CountryName,
		colContinent:   &result.Continent,
	}
	for name, dst := range fields {
		values, err := stringColumn(df, name)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			*dst = values[0]
		}
	}
	return nil
}
