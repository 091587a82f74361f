package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: JSON field names in errors,
// valueobject.Date, valueobject.Number and decimal.Decimal support, and the
// notfuture tag.
// It is safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Zero dates validate as absent so that "required" rejects them
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(valueobject.Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.Time()
		}, valueobject.Date{})

		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch d := field.Interface().(type) {
			case decimal.Decimal:
				return d.InexactFloat64()
			case valueobject.Number:
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{}, valueobject.Number{})

		_ = v.RegisterValidation("notfuture", validateNotFuture)
	})
}

// validateNotFuture rejects calendar dates after today
func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !valueobject.DateOf(t).IsFuture()
}

// FormatValidationError turns a binding error into a single client message
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, e.Field()+": "+getValidationMessage(e))
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: must be of type %s", typeErr.Field, typeErr.Type)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Invalid JSON body"
	}

	return err.Error()
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "notfuture":
		return "Must be today or in the past"
	default:
		return "Invalid value"
	}
}
