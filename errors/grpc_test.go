package errors

import (
	"errors"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToGRPCAndFromGRPC_ErrorInfoAndBadRequest(t *testing.T) {
	e := InvalidArgument().
		WithReason("validation_failed").
		WithDomain("cpf").
		WithDetails(map[string]string{"cpf": "invalid_check_digit"}).
		WithViolations([]FieldViolation{{Field: "cpf", Reason: "invalid_check_digit"}})

	err := e.ToGRPC()
	st, _ := status.FromError(err)

	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code mismatch: got %v", st.Code())
	}

	var foundInfo, foundBR bool
	for _, d := range st.Details() {
		switch x := d.(type) {
		case *errdetails.ErrorInfo:
			foundInfo = true
			if x.GetReason() != "validation_failed" {
				t.Fatalf("reason mismatch: %s", x.GetReason())
			}
			if x.GetMetadata()["cpf"] != "invalid_check_digit" {
				t.Fatalf("metadata mismatch: %v", x.GetMetadata())
			}
			if x.GetDomain() != "cpf" {
				t.Fatalf("domain mismatch: %s", x.GetDomain())
			}
		case *errdetails.BadRequest:
			foundBR = true
			if len(x.FieldViolations) == 0 || x.FieldViolations[0].GetField() != "cpf" {
				t.Fatalf("badrequest violations missing")
			}
		}
	}
	if !foundInfo || !foundBR {
		t.Fatalf("missing details: ErrorInfo=%v BadRequest=%v", foundInfo, foundBR)
	}

	back := FromGRPC(err)
	if back.Domain != "cpf" || back.Reason != "validation_failed" {
		t.Fatalf("reason/domain didn't roundtrip: %+v", back)
	}
	if back.Details["cpf"] != "invalid_check_digit" {
		t.Fatalf("details didn't roundtrip: %+v", back.Details)
	}
	if len(back.Violations) != 1 || back.Violations[0].Reason != "invalid_check_digit" {
		t.Fatalf("violation reason didn't roundtrip: %+v", back.Violations)
	}
}

func TestToGRPCAndFromGRPC_PreservesViolationReason(t *testing.T) {
	e := ValidationViolations([]FieldViolation{{
		Field:       "cpf",
		Reason:      "invalid_cpf",
		Description: "CPF check digits do not match",
	}})

	back := FromGRPC(e.ToGRPC())
	if len(back.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", back.Violations)
	}

	v := back.Violations[0]
	if v.Field != "cpf" || v.Reason != "invalid_cpf" || v.Description != "CPF check digits do not match" {
		t.Fatalf("violation mismatch: %+v", v)
	}
	if len(back.Details) != 0 {
		t.Fatalf("internal violation metadata must not leak to details: %+v", back.Details)
	}
}

func TestFromGRPC_NonStatusError(t *testing.T) {
	if got := FromGRPC(errors.New("plain")); got.Code != codes.Unknown {
		t.Fatalf("expected Unknown, got %+v", got)
	}
}
