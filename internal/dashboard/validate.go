package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEntry is returned when input fails a feature's validation gate.
// Nothing is added and nothing is written.
var ErrInvalidEntry = errors.New("entry rejected")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names rather than Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type moduleInput struct {
	Name string `json:"name" validate:"required"`
}

type taskInput struct {
	Text string `json:"text" validate:"required"`
}

type creditInput struct {
	Value int `json:"value" validate:"gt=0"`
}

type assignmentInput struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"required"`
}

func gate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(msgs, ", "))
}
