package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "covidreport/internal/errors"
)

// ReportParams are the route and query parameters of a report request
type ReportParams struct {
	Endpoint    string `param:"endpoint" validate:"required,oneof=rolling-five-days total-data"`
	CountryCode string `param:"countryterritoryCode" validate:"required_if=Endpoint rolling-five-days,max=64"`
	Format      string `param:"format" validate:"omitempty,oneof=json csv xlsx"`
}

// ParamValidator checks report parameters before any dataset access
type ParamValidator struct {
	validator *validator.Validate
}

// NewParamValidator creates a validator that names fields by their URL
// parameter
func NewParamValidator() *ParamValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("param")
	})
	return &ParamValidator{validator: v}
}

// Validate normalises p in place and returns the first violation as an
// *errors.APIError. Fields are checked in declaration order so a bad endpoint
// wins over a missing country code.
func (pv *ParamValidator) Validate(p *ReportParams) error {
	p.Endpoint = strings.TrimSpace(p.Endpoint)
	p.CountryCode = strings.TrimSpace(p.CountryCode)
	p.Format = strings.ToLower(strings.TrimSpace(p.Format))

	err := pv.validator.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierrors.Processing(err)
	}
	return toAPIError(fieldErrs[0])
}

func toAPIError(fe validator.FieldError) *apierrors.APIError {
	switch fe.StructField() {
	case "Endpoint":
		if fe.Tag() == "required" {
			return apierrors.ErrEndpointMissing
		}
		return apierrors.ErrInvalidEndpoint
	case "CountryCode":
		if fe.Tag() == "required_if" {
			return apierrors.ErrCountryMissing
		}
		return apierrors.ErrValidation(fe.Field(), formatValidationError(fe))
	case "Format":
		return apierrors.ErrInvalidFormat
	}
	return apierrors.ErrValidation(fe.Field(), formatValidationError(fe))
}

// formatValidationError formats validation error messages
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Invalid %s. It must be at most %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Invalid %s.", fe.Field())
	}
}
