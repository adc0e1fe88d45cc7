package report

import (
	"fmt"

	"covidreport/internal/config"
	"covidreport/internal/query"
)

// Builder turns query results into documents carrying the configured
// metadata. It holds no per-request state.
type Builder struct {
	meta config.ReportConfig
}

// NewBuilder creates a builder with the given metadata texts
func NewBuilder(meta config.ReportConfig) *Builder {
	return &Builder{meta: meta}
}

// Build dispatches on kind. It only fails when result is not the type
// produced by the query for that kind.
func (b *Builder) Build(kind Kind, result any) (Document, error) {
	switch kind {
	case KindRolling:
		r, ok := result.(*query.WindowResult)
		if !ok || r == nil {
			return nil, fmt.Errorf("build %s report: unexpected result %T", kind, result)
		}
		return b.Rolling(r), nil
	case KindTotals:
		r, ok := result.(*query.TotalsResult)
		if !ok || r == nil {
			return nil, fmt.Errorf("build %s report: unexpected result %T", kind, result)
		}
		return b.Totals(r), nil
	default:
		return nil, fmt.Errorf("build report: unknown kind %q", kind)
	}
}

// Rolling maps a five-day window result
func (b *Builder) Rolling(r *query.WindowResult) *RollingDocument {
	doc := &RollingDocument{
		Metadata:       b.metadata(RollingTitle),
		GeoID:          r.GeoID,
		CountryCode:    r.CountryCode,
		Country:        r.CountryName,
		Continent:      r.Continent,
		Reconciliation: reconciliation(r.Reconciliation),
		Records:        make([]DayRecord, 0, len(r.Days)),
	}
	for _, d := range r.Days {
		doc.Records = append(doc.Records, DayRecord{
			DateRep: d.DateRep,
			Day:     d.Day,
			Month:   d.Month,
			Year:    d.Year,
			Cases:   d.Cases,
			Deaths:  d.Deaths,
		})
	}
	return doc
}

// Totals maps a per-country totals result
func (b *Builder) Totals(r *query.TotalsResult) *TotalsDocument {
	doc := &TotalsDocument{
		Metadata:       b.metadata(TotalsTitle),
		Reconciliation: reconciliation(r.Reconciliation),
		Records:        make([]CountryRecord, 0, len(r.Countries)),
	}
	for _, c := range r.Countries {
		doc.Records = append(doc.Records, CountryRecord{
			CountryCode: c.CountryCode,
			TotalCases:  c.TotalCases,
			TotalDeaths: c.TotalDeaths,
		})
	}
	return doc
}

func (b *Builder) metadata(title string) Metadata {
	return Metadata{
		SourceDataset:   title,
		SourceSystem:    b.meta.SourceSystem,
		LastRefreshDate: b.meta.RefreshDate,
		UpdateFrequency: b.meta.UpdateFrequency,
		SourceContact:   b.meta.SourceContact,
		HouseKeeping:    b.meta.HouseKeeping,
	}
}

func reconciliation(r query.Reconciliation) Reconciliation {
	return Reconciliation{
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		TotalCases:   r.TotalCases,
		TotalDeaths:  r.TotalDeaths,
		TotalRecords: r.TotalRecords,
	}
}
