package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"tourify/internal/apperr"
	"tourify/internal/models"
)

const maxBodyBytes = 1 << 20

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(slotEndsAfterStart, models.AvailabilitySlot{})
	return v
}

// slotEndsAfterStart is reported next to the tag errors of the same request.
// Unparseable times are left to the datetime tags.
func slotEndsAfterStart(sl validator.StructLevel) {
	slot := sl.Current().Interface().(models.AvailabilitySlot)
	start, err1 := time.Parse("15:04", slot.StartTime)
	end, err2 := time.Parse("15:04", slot.EndTime)
	if err1 != nil || err2 != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(slot.EndTime, "end_time", "EndTime", "gtfield", "start_time")
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. Every
// failing field is reported.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("invalid_json", "Request body is required")
		}
		return apperr.Validation("invalid_json", "Invalid JSON: "+err.Error())
	}
	return validateStruct(v, dst)
}

func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("validation_error", err.Error())
	}
	details := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperr.FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return apperr.Validation("validation_error", "Request validation failed", details...)
}

// fieldPath drops the top-level struct name: "CreateTentRequest.tent_number"
// becomes "tent_number".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "hexcolor":
		return "must be a hex colour"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must match layout " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	case "min", "gte", "gt":
		return fmt.Sprintf("must be %s %s", comparison(fe.Tag()), fe.Param())
	case "max", "lte", "lt":
		return fmt.Sprintf("must be %s %s", comparison(fe.Tag()), fe.Param())
	}
	return "failed " + fe.Tag() + " validation"
}

func comparison(tag string) string {
	switch tag {
	case "gt":
		return "greater than"
	case "lt":
		return "less than"
	case "min", "gte":
		return "at least"
	default:
		return "at most"
	}
}
