package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidreport/internal/config"
	"covidreport/internal/query"
)

func testBuilder() *Builder {
	return NewBuilder(config.Default().Report)
}

func windowFixture() *query.WindowResult {
	return &query.WindowResult{
		CountryCode: "AUT",
		GeoID:       "AT",
		CountryName: "Austria",
		Continent:   "Europe",
		LatestDate:  time.Date(2020, 12, 14, 0, 0, 0, 0, time.UTC),
		Days: []query.DayEntry{
			{DateRep: "13/12/2020", Day: 13, Month: 12, Year: 2020, Cases: 2, Deaths: 1},
			{DateRep: "14/12/2020", Day: 14, Month: 12, Year: 2020, Cases: 3, Deaths: 0},
		},
		Reconciliation: query.Reconciliation{
			StartDate: "10/12/2020", EndDate: "14/12/2020",
			TotalCases: 5, TotalDeaths: 1, TotalRecords: 2,
		},
	}
}

func totalsFixture() *query.TotalsResult {
	return &query.TotalsResult{
		Countries: []query.CountryTotal{
			{CountryCode: "AUT", TotalCases: 5, TotalDeaths: 1},
			{CountryCode: "BEL", TotalCases: 2, TotalDeaths: 1},
		},
		Reconciliation: query.Reconciliation{TotalCases: 7, TotalDeaths: 2, TotalRecords: 2},
	}
}

func TestBuilder_RollingJSONShape(t *testing.T) {
	doc := testBuilder().Rolling(windowFixture())

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "5-Day Covid-19 Report", got["Source Dataset"])
	assert.Equal(t, "ECDC(European Centre for Disease Prevention and Control)", got["Source System"])
	assert.Equal(t, "To be added", got["Last Source Data refresh date"])
	assert.Equal(t, "Weekly Twice", got["Source Data update frequency"])
	assert.Equal(t, "To be added", got["Source contact"])
	assert.Equal(t, "More house keeping columns can also be added", got["House keeping"])
	assert.Equal(t, "AT", got["geoId"])
	assert.Equal(t, "AUT", got["countryterritoryCode"])
	assert.Equal(t, "Austria", got["country"])
	assert.Equal(t, "Europe", got["continent"])

	recon, ok := got["Reconciliation Record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"startDate":    "10/12/2020",
		"endDate":      "14/12/2020",
		"totalCases":   float64(5),
		"totalDeaths":  float64(1),
		"totalRecords": float64(2),
	}, recon)

	records, ok := got["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{
		"dateRep": "13/12/2020",
		"day":     float64(13),
		"month":   float64(12),
		"year":    float64(2020),
		"cases":   float64(2),
		"deaths":  float64(1),
	}, records[0])
}

func TestBuilder_TotalsJSONShape(t *testing.T) {
	doc := testBuilder().Totals(totalsFixture())

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "Aggregated Covid-19 Report", got["Source Dataset"])
	assert.NotContains(t, got, "geoId")

	recon := got["Reconciliation Record"].(map[string]any)
	assert.NotContains(t, recon, "startDate")
	assert.NotContains(t, recon, "endDate")
	assert.Equal(t, float64(7), recon["totalCases"])
	assert.Equal(t, float64(2), recon["totalDeaths"])
	assert.Equal(t, float64(2), recon["totalRecords"])

	records := got["records"].([]any)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{
		"countryterritoryCode": "AUT",
		"totalCases":           float64(5),
		"totalDeaths":          float64(1),
	}, records[0])
}

func TestBuilder_EmptyRecordsSerialiseAsArray(t *testing.T) {
	doc := testBuilder().Totals(&query.TotalsResult{})
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"records":[]`)
}

func TestBuilder_CustomMetadata(t *testing.T) {
	meta := config.Default().Report
	meta.RefreshDate = "2020-12-14"
	meta.SourceContact = "data-team@example.com"

	doc := NewBuilder(meta).Totals(totalsFixture())
	assert.Equal(t, "2020-12-14", doc.LastRefreshDate)
	assert.Equal(t, "data-team@example.com", doc.SourceContact)
}

func TestBuilder_Build(t *testing.T) {
	b := testBuilder()

	tests := []struct {
		name     string
		kind     Kind
		result   any
		wantKind Kind
		wantErr  bool
	}{
		{"rolling", KindRolling, windowFixture(), KindRolling, false},
		{"totals", KindTotals, totalsFixture(), KindTotals, false},
		{"rolling with totals result", KindRolling, totalsFixture(), "", true},
		{"totals with window result", KindTotals, windowFixture(), "", true},
		{"nil result", KindTotals, (*query.TotalsResult)(nil), "", true},
		{"unknown kind", Kind("weekly"), totalsFixture(), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := b.Build(tt.kind, tt.result)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, doc.Kind())
		})
	}
}

func TestDocument_Table(t *testing.T) {
	rolling := testBuilder().Rolling(windowFixture()).Table()
	assert.Equal(t, []string{"dateRep", "day", "month", "year", "cases", "deaths"}, rolling.Headers)
	assert.Equal(t, [][]string{
		{"13/12/2020", "13", "12", "2020", "2", "1"},
		{"14/12/2020", "14", "12", "2020", "3", "0"},
	}, rolling.Rows)

	totals := testBuilder().Totals(totalsFixture()).Table()
	assert.Equal(t, []string{"countryterritoryCode", "totalCases", "totalDeaths"}, totals.Headers)
	assert.Equal(t, []string{"BEL", "2", "1"}, totals.Rows[1])
}

func TestDocument_Summary(t *testing.T) {
	summary := testBuilder().Rolling(windowFixture()).Summary()
	require.NotEmpty(t, summary)
	assert.Equal(t, Field{"Source Dataset", RollingTitle}, summary[0])
	assert.Contains(t, summary, Field{"country", "Austria"})
	assert.Contains(t, summary, Field{"startDate", "10/12/2020"})
	assert.Equal(t, Field{"totalRecords", "2"}, summary[len(summary)-1])

	totals := testBuilder().Totals(totalsFixture()).Summary()
	assert.NotContains(t, totals, Field{"startDate", ""})
	assert.Len(t, totals, 6+3)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("rolling-five-days")
	assert.True(t, ok)
	assert.Equal(t, KindRolling, k)

	k, ok = ParseKind("total-data")
	assert.True(t, ok)
	assert.Equal(t, KindTotals, k)

	_, ok = ParseKind("Total-Data")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)
}
