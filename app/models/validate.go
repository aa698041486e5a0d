package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the struct tag rules of any model value.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
