package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"tripbook/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// Enum is implemented by string-backed domain enums so they can be checked with the `enum` tag.
type Enum interface {
	IsValid() bool
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

func registerEnumValidation(fl val.FieldLevel) bool {
	field := fl.Field()

	if field.Type().Implements(enumType) {
		enum, _ := field.Interface().(Enum)

		return enum.IsValid()
	}

	if field.CanAddr() && field.Addr().Type().Implements(enumType) {
		enum, _ := field.Addr().Interface().(Enum)

		return enum.IsValid()
	}

	return false
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("enum", registerEnumValidation); err != nil {
		panic(err)
	}

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	})
	if err != nil {
		panic(err)
	}
}

// Validate decodes JSON from r into data and validates the result.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
