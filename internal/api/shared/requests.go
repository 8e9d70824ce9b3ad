package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// MaxRequestBodyBytes bounds JSON request bodies.
const MaxRequestBodyBytes = 1 << 20

var validate = newValidator()

// newValidator returns a validator that reports JSON field names and knows
// the closed vocabularies of the exam model.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "cefr_level", func(fl validator.FieldLevel) bool {
		return domain.Level(fl.Field().String()).Valid()
	})
	mustRegister(v, "section_type", func(fl validator.FieldLevel) bool {
		return domain.SectionType(fl.Field().String()).Valid()
	})
	mustRegister(v, "question_type", func(fl validator.FieldLevel) bool {
		return domain.QuestionType(fl.Field().String()).Valid()
	})
	mustRegister(v, "json_object", func(fl validator.FieldLevel) bool {
		raw := bytes.TrimSpace(fl.Field().Bytes())
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return true
		}
		var obj map[string]json.RawMessage
		return raw[0] == '{' && json.Unmarshal(raw, &obj) == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		// ALLOW-PANIC: tags are static and registered at init
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// DecodeJSON decodes the request body into v. Bodies larger than
// MaxRequestBodyBytes and trailing data after the JSON value are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// ValidateRequest validates v with its struct tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// FieldError describes the first invalid field of a validator error.
type FieldError struct {
	// Field is the JSON path of the field, e.g. "sections[0].questions[1].type".
	Field string

	// Message is a short human readable reason.
	Message string
}

// FirstFieldError extracts the first field failure from err. It returns false
// if err is not a validator error.
func FirstFieldError(err error) (FieldError, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return FieldError{}, false
	}
	fe := errs[0]

	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return FieldError{Field: field, Message: tagMessage(fe.Tag())}, true
}

// tagMessage maps validation tags to user-friendly reasons.
func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "gt", "gte":
		return "is too small"
	case "cefr_level":
		return "must be one of A1 A2 B1 B2 C1"
	case "section_type":
		return "must be one of reading listening writing speaking"
	case "question_type":
		return "must be one of multiple_choice fill_in_blank essay audio_response"
	case "json_object":
		return "must be a JSON object"
	default:
		return "is invalid"
	}
}
