package errors

import (
	"fmt"
	"strings"

	play "github.com/go-playground/validator/v10"
)

// FromPlayground adapts go-playground/validator errors to InvalidArgument with
// one violation per failed field. Field paths come from Namespace (which
// honours a registered tag name func) with the root type name stripped.
func FromPlayground(err play.ValidationErrors, tagToReason map[string]string) ErrorResponse {
	violations := make([]FieldViolation, 0, len(err))
	for _, fe := range err {
		tag := fe.Tag()
		reason := tagToReason[tag]
		if reason == "" {
			reason = "invalid"
		}

		field := fieldPath(fe)
		violations = append(violations, FieldViolation{
			Field:       field,
			Reason:      reason,
			Description: fmt.Sprintf("%s validation failed (%s)", field, tag),
		})
	}
	return ValidationViolations(violations)
}

// fieldPath turns "Type.User.Email" into "User.Email".
func fieldPath(fe play.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 && i+1 < len(ns) {
		return ns[i+1:]
	}
	if ns != "" {
		return ns
	}
	return fe.Field()
}
