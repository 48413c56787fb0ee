package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog-service/internal/domain"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// A movie's release date may be at most one year ahead of today.
const maxReleaseOffsetDays = 365

var countryCodeRgx = regexp.MustCompile(`^[A-Z]{2,3}$`)

const (
	ErrRequired      = "is required"
	ErrMin           = "must be at least %s"
	ErrMax           = "must be at most %s"
	ErrMinLength     = "must be at least %s characters long"
	ErrMaxLength     = "must be at most %s characters long"
	ErrCountryCode   = "must be a 2 or 3 letter uppercase country code"
	ErrReleaseDate   = "cannot be more than one year in the future"
	ErrInvalidStatus = "must be a valid movie status"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("release_date", validateReleaseDate)
	validator.RegisterValidation("country_code", validateCountryCode)
	validator.RegisterValidation("movie_status", validateMovieStatus)

	return validator
}

func validateReleaseDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(openapi_types.Date)
	if !ok {
		return false
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	limit := today.AddDate(0, 0, maxReleaseOffsetDays)

	return !date.Time.After(limit)
}

func validateCountryCode(fl validator.FieldLevel) bool {
	return countryCodeRgx.MatchString(fl.Field().String())
}

func validateMovieStatus(fl validator.FieldLevel) bool {
	status := domain.MovieStatus(fl.Field().String())

	for _, s := range domain.MovieStatuses {
		if status == s {
			return true
		}
	}

	return false
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMin, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMax, err.Param())
	case "country_code":
		return ErrCountryCode
	case "release_date":
		return ErrReleaseDate
	case "movie_status":
		return ErrInvalidStatus
	default:
		return "is invalid"
	}
}
