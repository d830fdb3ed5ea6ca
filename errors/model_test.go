package errors

import (
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestErrorResponseToString(t *testing.T) {
	e := New("Invalid argument", codes.InvalidArgument, map[string]string{"cpf": "invalid_check_digit"}).
		WithReason("validation_failed")
	s := e.ToString()
	for _, want := range []string{`"code":"InvalidArgument"`, `"reason":"validation_failed"`, `"cpf":"invalid_check_digit"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
}

func TestNew_ClonesDetailsMap(t *testing.T) {
	details := map[string]string{"cpf": "invalid_length"}
	e := New("Invalid argument", codes.InvalidArgument, details)
	details["cpf"] = "mutated"

	if e.Details["cpf"] != "invalid_length" {
		t.Fatalf("expected details to be cloned, got %q", e.Details["cpf"])
	}
}

func TestWithDetail_DoesNotMutateSource(t *testing.T) {
	base := InvalidArgument().WithDetail("cpf", "invalid_length")
	derived := base.WithDetail("password", "required")

	if _, ok := base.Details["password"]; ok {
		t.Fatalf("base response mutated: %+v", base.Details)
	}
	if derived.Details["password"] != "required" || derived.Details["cpf"] != "invalid_length" {
		t.Fatalf("unexpected derived details: %+v", derived.Details)
	}
}

func TestWithDetails_DoesNotMutateSourceAndInput(t *testing.T) {
	base := InvalidArgument().WithDetails(map[string]string{"cpf": "invalid_length"})
	extra := map[string]string{"password": "required"}
	derived := base.WithDetails(extra)
	extra["password"] = "mutated"

	if _, ok := base.Details["password"]; ok {
		t.Fatalf("base response mutated: %+v", base.Details)
	}
	if derived.Details["password"] != "required" {
		t.Fatalf("expected cloned input details, got %+v", derived.Details)
	}
	if got := base.WithDetails(nil); len(got.Details) != 1 {
		t.Fatalf("empty WithDetails must be a no-op, got %+v", got.Details)
	}
}

func TestWithViolations_Copies(t *testing.T) {
	in := []FieldViolation{{Field: "cpf", Reason: "invalid_cpf"}}
	e := InvalidArgument().WithViolations(in)
	in[0].Reason = "mutated"

	if e.Violations[0].Reason != "invalid_cpf" {
		t.Fatalf("violations not copied: %+v", e.Violations)
	}
}

func TestError_DelegatesToToString(t *testing.T) {
	e := InvalidArgument().WithDetail("field", "cpf")
	if e.Error() != e.ToString() {
		t.Fatalf("Error() must match ToString()")
	}
}

func TestValidationFields(t *testing.T) {
	e := ValidationFields(map[string]string{"cpf": "invalid_cpf"})
	if e.Code != codes.InvalidArgument || e.Reason != "validation_failed" {
		t.Fatalf("unexpected response: %+v", e)
	}
	if len(e.Violations) != 1 || e.Violations[0].Field != "cpf" {
		t.Fatalf("unexpected violations: %+v", e.Violations)
	}
}

func TestMalformedBody(t *testing.T) {
	e := MalformedBody("unexpected EOF")
	if e.Reason != "malformed_body" || e.Details["body"] != "unexpected EOF" {
		t.Fatalf("unexpected response: %+v", e)
	}
	if e := MalformedBody(""); e.Details != nil {
		t.Fatalf("empty detail must not be recorded: %+v", e.Details)
	}
}
