// Package validation is the input boundary for every mutating request. It
// checks all constraints of a payload before reporting, trims strings, applies
// defaults and drops anything the schema does not name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	projectdomain "github.com/projectpulse/pulse-backend/internal/projects/domain"
)

// Gate validates payloads against the fixed schemas of this service.
type Gate struct {
	v   *validator.Validate
	now func() time.Time
}

// New builds a Gate. now decides what "today" is for due-date checks.
func New(now func() time.Time) *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	g := &Gate{v: v, now: now}
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := projectdomain.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		d, err := projectdomain.ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		return !d.Before(projectdomain.NewDate(g.now()))
	})
	return g
}

var defaultGate = New(time.Now)

// check runs the validator over rules and converts every failure into a
// FieldError with a readable message. Fields listed in mismatched held a
// non-string JSON value; they are reported as such and their other rules are
// skipped. Details come back in the field order of rules.
func (g *Gate) check(rules any, mismatched ...mismatch) error {
	t := reflect.TypeOf(rules)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	order := make(map[string]int, t.NumField())
	labels := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		order[name] = i
		labels[name] = sf.Tag.Get("label")
		if labels[name] == "" {
			labels[name] = name
		}
	}

	var details []apperr.FieldError
	skip := make(map[string]bool, len(mismatched))
	for _, m := range mismatched {
		skip[m.field] = true
		details = append(details, apperr.FieldError{
			Field:   m.field,
			Message: labels[m.field] + " must be a string",
			Value:   m.value,
		})
	}

	if err := g.v.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range verrs {
			if skip[fe.Field()] {
				continue
			}
			d := apperr.FieldError{Field: fe.Field(), Message: message(labels[fe.Field()], fe)}
			if fe.Tag() != "required" {
				d.Value = fe.Value()
			}
			details = append(details, d)
		}
	}

	if len(details) == 0 {
		return nil
	}
	sort.SliceStable(details, func(i, j int) bool {
		return order[details[i].Field] < order[details[j].Field]
	})
	return &apperr.ValidationError{Details: details}
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "alphanum":
		return label + " must contain only alphanumeric characters"
	case "isodate":
		return label + " must be a valid date"
	case "notpast":
		return label + " cannot be in the past"
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func asValidation(err error) (*apperr.ValidationError, bool) {
	var verr *apperr.ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
