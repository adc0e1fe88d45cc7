package query

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"covidreport/internal/dataset"
)

// TotalsByCountry sums cases and deaths per country over the whole dataset.
// TotalRecords in the reconciliation is the number of countries.
func TotalsByCountry(ds dataset.Dataset) (*TotalsResult, error) {
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}

	groups := groupFrame(ds.Records).GroupBy(colGroupKey)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by country: %w", groups.Err)
	}

	sum := dataframe.Aggregation_SUM
	agg := groups.Aggregation(
		[]dataframe.AggregationType{sum, sum},
		[]string{colCases, colDeaths},
	).Arrange(dataframe.Sort(colGroupKey))
	if agg.Err != nil {
		return nil, fmt.Errorf("aggregate totals: %w", agg.Err)
	}

	keys, err := stringColumn(agg, colGroupKey)
	if err != nil {
		return nil, err
	}
	cases, err := sumColumn(agg, aggregatedName(colCases, sum))
	if err != nil {
		return nil, err
	}
	deaths, err := sumColumn(agg, aggregatedName(colDeaths, sum))
	if err != nil {
		return nil, err
	}

	result := &TotalsResult{Countries: make([]CountryTotal, len(keys))}
	for i, key := range keys {
		result.Countries[i] = CountryTotal{
			CountryCode: strings.TrimPrefix(key, groupKeyPrefix),
			TotalCases:  cases[i],
			TotalDeaths: deaths[i],
		}
		result.Reconciliation.TotalCases += cases[i]
		result.Reconciliation.TotalDeaths += deaths[i]
	}
	result.Reconciliation.TotalRecords = len(result.Countries)

	return result, nil
}
