package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "covidreport/internal/errors"
)

func TestParamValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		params     ReportParams
		wantErr    *apierrors.APIError
		wantStatus int
	}{
		{
			name:   "rolling with code",
			params: ReportParams{Endpoint: "rolling-five-days", CountryCode: "AUT"},
		},
		{
			name:   "totals without code",
			params: ReportParams{Endpoint: "total-data"},
		},
		{
			name:   "totals ignores code",
			params: ReportParams{Endpoint: "total-data", CountryCode: "AUT", Format: "CSV"},
		},
		{
			name:    "missing endpoint",
			params:  ReportParams{},
			wantErr: apierrors.ErrEndpointMissing,
		},
		{
			name:    "blank endpoint",
			params:  ReportParams{Endpoint: "  "},
			wantErr: apierrors.ErrEndpointMissing,
		},
		{
			name:    "unknown endpoint",
			params:  ReportParams{Endpoint: "weekly"},
			wantErr: apierrors.ErrInvalidEndpoint,
		},
		{
			name:    "unknown endpoint beats missing code",
			params:  ReportParams{Endpoint: "rolling-six-days"},
			wantErr: apierrors.ErrInvalidEndpoint,
		},
		{
			name:    "rolling without code",
			params:  ReportParams{Endpoint: "rolling-five-days"},
			wantErr: apierrors.ErrCountryMissing,
		},
		{
			name:    "bad format",
			params:  ReportParams{Endpoint: "total-data", Format: "pdf"},
			wantErr: apierrors.ErrInvalidFormat,
		},
		{
			name:       "overlong code",
			params:     ReportParams{Endpoint: "rolling-five-days", CountryCode: strings.Repeat("A", 65)},
			wantStatus: http.StatusBadRequest,
		},
	}

	v := NewParamValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.params
			err := v.Validate(&p)

			switch {
			case tt.wantErr != nil:
				assert.Same(t, tt.wantErr, err)
			case tt.wantStatus != 0:
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Contains(t, apiErr.Message, "countryterritoryCode")
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestParamValidator_Normalises(t *testing.T) {
	p := ReportParams{Endpoint: " total-data ", Format: " XLSX "}
	require.NoError(t, NewParamValidator().Validate(&p))

	assert.Equal(t, "total-data", p.Endpoint)
	assert.Equal(t, "xlsx", p.Format)
}
