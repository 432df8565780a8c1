package form

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxAuthorAge bounds how far back a birth date may go.
const MaxAuthorAge = 120

var validate *validator.Validate

var (
	isbnPrefix = regexp.MustCompile(`^ISBN(?:-1[03])?:?\s*`)
	isbn10     = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13     = regexp.MustCompile(`^97[89]\d{10}$`)
)

// today is replaceable so date bounds can be tested deterministically.
var today = func() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	validate.RegisterValidation("isbn", validateISBN)
	validate.RegisterValidation("birthdate", validateBirthDate)
	validate.RegisterValidation("notfuture", validateNotFuture)
}

// NormalizeISBN strips an ISBN label, hyphens and spaces.
func NormalizeISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	isbn = isbnPrefix.ReplaceAllString(isbn, "")
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.ToUpper(isbn)
}

// ValidISBN reports whether isbn is a well-formed ISBN-10 or ISBN-13.
func ValidISBN(isbn string) bool {
	n := NormalizeISBN(isbn)
	switch len(n) {
	case 10:
		return isbn10.MatchString(n)
	case 13:
		return isbn13.MatchString(n)
	}
	return false
}

func validateISBN(fl validator.FieldLevel) bool {
	return ValidISBN(fl.Field().String())
}

func dateOf(fl validator.FieldLevel) (time.Time, bool) {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok || t.IsZero() {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func validateBirthDate(fl validator.FieldLevel) bool {
	d, ok := dateOf(fl)
	if !ok {
		return false
	}
	now := today()
	return !d.After(now) && !d.Before(now.AddDate(-MaxAuthorAge, 0, 0))
}

func validateNotFuture(fl validator.FieldLevel) bool {
	d, ok := dateOf(fl)
	return ok && !d.After(today())
}

// FieldError is one failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a draft fails its field rules. It never
// reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func ValidateStruct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors []FieldError
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s needs at least %s entry", field, param)
			} else {
				message = fmt.Sprintf("%s must be at least %s characters", field, param)
			}
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "birthdate":
			message = fmt.Sprintf("%s must be within the last %d years and not in the future", field, MaxAuthorAge)
		case "notfuture":
			message = fmt.Sprintf("%s cannot be in the future", field)
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		errors = append(errors, FieldError{
			Field:   fieldName(err),
			Message: message,
		})
	}

	return errors
}

// fieldName keeps the index of slice elements, e.g. authors[1].
func fieldName(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}
