// Package validator is a shared go-playground/validator instance with a
// "cpf" tag registered.
//
//	type Customer struct {
//		CPF string `json:"cpf" validate:"required,cpf"`
//	}
//
// Field paths in results use the json name when a field has one.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/go-cpf/cpf"
	errs "github.com/vortex-fintech/go-cpf/errors"
)

// TagCPF validates string fields (any punctuation) and cpf.CPF fields.
const TagCPF = "cpf"

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(cpfValue, cpf.CPF{})
	if err := v.RegisterValidation(TagCPF, validateCPF); err != nil {
		panic(err)
	}
}

func Instance() *validator.Validate {
	return v
}

// Validate returns field path -> reason code, or nil when i is valid.
func Validate(i any) map[string]string {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return map[string]string{"_error": "validation_failed"}
	}
	out := make(map[string]string, len(ves))
	for _, e := range ves {
		out[fieldPath(e)] = mapTagToCode(e.Tag())
	}
	return out
}

// ValidateStruct is Validate returning an errors.ErrorResponse with one
// violation per failed field, ready for ToHTTP or ToGRPC.
func ValidateStruct(i any) error {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return errs.InvalidArgument().WithReason("validation_failed")
	}
	return errs.FromPlayground(ves, tagMap)
}

func validateCPF(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	return cpf.Validate(f.String())
}

// cpfValue lets tags on cpf.CPF fields see the digits; the zero value is
// empty, so "required" rejects it.
func cpfValue(field reflect.Value) any {
	if c, ok := field.Interface().(cpf.CPF); ok {
		return c.Digits()
	}
	return nil
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 && i+1 < len(ns) {
		return ns[i+1:]
	}
	return e.Field()
}
