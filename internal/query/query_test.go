package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidreport/internal/dataset"
)

// cleaned builds a dataset the way the service does: raw records through Clean.
func cleaned(rows ...dataset.Record) dataset.Dataset {
	return dataset.Clean(dataset.Dataset{Records: rows})
}

func row(dateRep, code string, day, month, year int, cases, deaths int64) dataset.Record {
	names := map[string][2]string{
		"AUT": {"AT", "Austria"},
		"BEL": {"BE", "Belgium"},
		"NAM": {"NA", "Namibia"},
	}
	return dataset.Record{
		DateRep:     dateRep,
		Day:         day,
		Month:       month,
		Year:        year,
		Cases:       cases,
		Deaths:      deaths,
		CountryCode: code,
		GeoID:       names[code][0],
		CountryName: names[code][1],
		Continent:   "Europe",
	}
}

func austriaFixture() []dataset.Record {
	return []dataset.Record{
		row("14/12/2020", "AUT", 14, 12, 2020, 3, 0),
		row("13/12/2020", "AUT", 13, 12, 2020, 2, 1),
		row("12/12/2020", "AUT", 12, 12, 2020, 1, 0),
	}
}

func TestRollingWindow_ThreeDayFixture(t *testing.T) {
	result, err := RollingWindow(cleaned(austriaFixture()...), "AUT")
	require.NoError(t, err)

	assert.Equal(t, "AUT", result.CountryCode)
	assert.Equal(t, "AT", result.GeoID)
	assert.Equal(t, "Austria", result.CountryName)
	assert.Equal(t, "Europe", result.Continent)

	assert.Equal(t, Reconciliation{
		StartDate:    "10/12/2020",
		EndDate:      "14/12/2020",
		TotalCases:   6,
		TotalDeaths:  1,
		TotalRecords: 3,
	}, result.Reconciliation)

	require.Len(t, result.Days, 3)
	var reps []string
	for _, d := range result.Days {
		reps = append(reps, d.DateRep)
	}
	assert.Equal(t, []string{"12/12/2020", "13/12/2020", "14/12/2020"}, reps)
	assert.Equal(t, DayEntry{
		Date:    result.Days[1].Date,
		DateRep: "13/12/2020",
		Day:     13,
		Month:   12,
		Year:    2020,
		Cases:   2,
		Deaths:  1,
	}, result.Days[1])
}

func TestRollingWindow_LimitsToFiveCalendarDays(t *testing.T) {
	var rows []dataset.Record
	for day := 1; day <= 10; day++ {
		rep := dateRep(day, 12, 2020)
		rows = append(rows, row(rep, "BEL", day, 12, 2020, int64(day), 0))
	}
	rows = append(rows, row("20/12/2020", "AUT", 20, 12, 2020, 100, 5))

	result, err := RollingWindow(cleaned(rows...), "BEL")
	require.NoError(t, err)

	require.Len(t, result.Days, WindowDays)
	assert.Equal(t, "06/12/2020", result.Days[0].DateRep)
	assert.Equal(t, "10/12/2020", result.Days[4].DateRep)
	assert.Equal(t, int64(6+7+8+9+10), result.Reconciliation.TotalCases)
	assert.Equal(t, "06/12/2020", result.Reconciliation.StartDate)
	assert.Equal(t, "10/12/2020", result.Reconciliation.EndDate)
}

func TestRollingWindow_GapsShrinkTheWindow(t *testing.T) {
	rows := []dataset.Record{
		row("01/12/2020", "AUT", 1, 12, 2020, 50, 0),
		row("09/12/2020", "AUT", 9, 12, 2020, 4, 0),
		row("05/12/2020", "AUT", 5, 12, 2020, 2, 0),
	}

	result, err := RollingWindow(cleaned(rows...), "AUT")
	require.NoError(t, err)
	require.Len(t, result.Days, 2)
	assert.Equal(t, "05/12/2020", result.Days[0].DateRep)
	assert.Equal(t, int64(6), result.Reconciliation.TotalCases)
	assert.Equal(t, 2, result.Reconciliation.TotalRecords)
}

func TestRollingWindow_SpansMonthBoundary(t *testing.T) {
	rows := []dataset.Record{
		row("02/01/2021", "AUT", 2, 1, 2021, 1, 0),
		row("29/12/2020", "AUT", 29, 12, 2020, 1, 0),
		row("28/12/2020", "AUT", 28, 12, 2020, 1, 0),
	}

	result, err := RollingWindow(cleaned(rows...), "AUT")
	require.NoError(t, err)
	assert.Equal(t, "29/12/2020", result.Reconciliation.StartDate)
	assert.Equal(t, "02/01/2021", result.Reconciliation.EndDate)
	assert.Len(t, result.Days, 2)
}

func TestRollingWindow_NotFound(t *testing.T) {
	tests := []struct {
		name string
		ds   dataset.Dataset
		code string
	}{
		{"unknown country", cleaned(austriaFixture()...), "ZZZ"},
		{"match is case sensitive", cleaned(austriaFixture()...), "aut"},
		{"empty dataset", dataset.Dataset{}, "AUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RollingWindow(tt.ds, tt.code)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRollingWindow_ExcludesNegativeRows(t *testing.T) {
	rows := append(austriaFixture(), row("11/12/2020", "AUT", 11, 12, 2020, -50, 0))

	result, err := RollingWindow(cleaned(rows...), "AUT")
	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Reconciliation.TotalCases)
	assert.Equal(t, 3, result.Reconciliation.TotalRecords)
}

func TestTotalsByCountry(t *testing.T) {
	rows := []dataset.Record{
		row("14/12/2020", "BEL", 14, 12, 2020, 2, 1),
		row("14/12/2020", "AUT", 14, 12, 2020, 3, 0),
		row("13/12/2020", "AUT", 13, 12, 2020, 2, 1),
	}

	result, err := TotalsByCountry(cleaned(rows...))
	require.NoError(t, err)

	assert.Equal(t, []CountryTotal{
		{CountryCode: "AUT", TotalCases: 5, TotalDeaths: 1},
		{CountryCode: "BEL", TotalCases: 2, TotalDeaths: 1},
	}, result.Countries)
	assert.Equal(t, Reconciliation{TotalCases: 7, TotalDeaths: 2, TotalRecords: 2}, result.Reconciliation)
}

func TestTotalsByCountry_GrandTotalsMatchGroupSums(t *testing.T) {
	var rows []dataset.Record
	for day := 1; day <= 9; day++ {
		rows = append(rows,
			row(dateRep(day, 11, 2020), "AUT", day, 11, 2020, int64(day*3), int64(day%2)),
			row(dateRep(day, 11, 2020), "BEL", day, 11, 2020, int64(day*5), 1),
		)
	}

	result, err := TotalsByCountry(cleaned(rows...))
	require.NoError(t, err)

	var cases, deaths int64
	for _, c := range result.Countries {
		cases += c.TotalCases
		deaths += c.TotalDeaths
	}
	assert.Equal(t, cases, result.Reconciliation.TotalCases)
	assert.Equal(t, deaths, result.Reconciliation.TotalDeaths)
	assert.Equal(t, int64(45*3+45*5), cases)
}

func TestTotalsByCountry_KeepsCodesGotaTreatsAsMissing(t *testing.T) {
	na := row("14/12/2020", "NAM", 14, 12, 2020, 4, 0)
	na.CountryCode = "NA"

	result, err := TotalsByCountry(cleaned(na, row("14/12/2020", "AUT", 14, 12, 2020, 1, 0)))
	require.NoError(t, err)
	require.Len(t, result.Countries, 2)
	assert.Equal(t, "AUT", result.Countries[0].CountryCode)
	assert.Equal(t, "NA", result.Countries[1].CountryCode)
	assert.Equal(t, int64(4), result.Countries[1].TotalCases)
}

func TestTotalsByCountry_ExcludesNegativeRows(t *testing.T) {
	rows := []dataset.Record{
		row("14/12/2020", "AUT", 14, 12, 2020, 3, 0),
		row("13/12/2020", "AUT", 13, 12, 2020, -10, 0),
		row("13/12/2020", "BEL", 13, 12, 2020, 1, -1),
	}

	result, err := TotalsByCountry(cleaned(rows...))
	require.NoError(t, err)
	assert.Equal(t, []CountryTotal{{CountryCode: "AUT", TotalCases: 3, TotalDeaths: 0}}, result.Countries)
	assert.Equal(t, 1, result.Reconciliation.TotalRecords)
}

func TestTotalsByCountry_Empty(t *testing.T) {
	_, err := TotalsByCountry(dataset.Dataset{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func dateRep(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}
