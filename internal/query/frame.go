package query

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"covidreport/internal/dataset"
)

// Frame column names. colDate holds ISO dates so string comparison orders
// them chronologically.
const (
	colDate        = "date"
	colDateRep     = "dateRep"
	colDay         = "day"
	colMonth       = "month"
	colYear        = "year"
	colCases       = "cases"
	colDeaths      = "deaths"
	colCountryCode = "countryCode"
	colGeoID       = "geoId"
	colCountryName = "countryName"
	colContinent   = "continent"
	colGroupKey    = "groupKey"
)

// groupKeyPrefix keeps codes such as "NA" from being read back as missing
// values when gota rebuilds the grouped frames.
const groupKeyPrefix = "k:"

// newFrame converts cleaned records into a dataframe
func newFrame(records []dataset.Record) dataframe.DataFrame {
	n := len(records)
	var (
		dates     = make([]string, n)
		dateReps  = make([]string, n)
		days      = make([]int, n)
		months    = make([]int, n)
		years     = make([]int, n)
		cases     = make([]int, n)
		deaths    = make([]int, n)
		codes     = make([]string, n)
		geoIDs    = make([]string, n)
		names     = make([]string, n)
		continent = make([]string, n)
	)

	for i, r := range records {
		dates[i] = r.Date.Format(time.DateOnly)
		dateReps[i] = r.DateRep
		days[i] = r.Day
		months[i] = r.Month
		years[i] = r.Year
		cases[i] = int(r.Cases)
		deaths[i] = int(r.Deaths)
		codes[i] = r.CountryCode
		geoIDs[i] = r.GeoID
		names[i] = r.CountryName
		continent[i] = r.Continent
	}

	return dataframe.New(
		series.New(dates, series.String, colDate),
		series.New(dateReps, series.String, colDateRep),
		series.New(days, series.Int, colDay),
		series.New(months, series.Int, colMonth),
		series.New(years, series.Int, colYear),
		series.New(cases, series.Int, colCases),
		series.New(deaths, series.Int, colDeaths),
		series.New(codes, series.String, colCountryCode),
		series.New(geoIDs, series.String, colGeoID),
		series.New(names, series.String, colCountryName),
		series.New(continent, series.String, colContinent),
	)
}

// groupFrame holds only the columns TotalsByCountry aggregates
func groupFrame(records []dataset.Record) dataframe.DataFrame {
	n := len(records)
	keys := make([]string, n)
	cases := make([]int, n)
	deaths := make([]int, n)
	for i, r := range records {
		keys[i] = groupKeyPrefix + r.CountryCode
		cases[i] = int(r.Cases)
		deaths[i] = int(r.Deaths)
	}

	return dataframe.New(
		series.New(keys, series.String, colGroupKey),
		series.New(cases, series.Int, colCases),
		series.New(deaths, series.Int, colDeaths),
	)
}

// intColumn reads an Int column, failing on missing cells
func intColumn(df dataframe.DataFrame, name string) ([]int, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("read column %s: %w", name, col.Err)
	}
	values, err := col.Int()
	if err != nil {
		return nil, fmt.Errorf("read column %s: %w", name, err)
	}
	return values, nil
}

// sumColumn reads an aggregated float column back as whole counts
func sumColumn(df dataframe.DataFrame, name string) ([]int64, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("read column %s: %w", name, col.Err)
	}
	floats := col.Float()
	out := make([]int64, len(floats))
	for i, f := range floats {
		out[i] = int64(math.Round(f))
	}
	return out, nil
}

// stringColumn reads a column as text
func stringColumn(df dataframe.DataFrame, name string) ([]string, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("read column %s: %w", name, col.Err)
	}
	return col.Records(), nil
}

func aggregatedName(col string, typ dataframe.AggregationType) string {
	return fmt.Sprintf("%s_%s", col, typ)
}
