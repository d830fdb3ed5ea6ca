package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestHTTPStatusMappingTable(t *testing.T) {
	cases := map[codes.Code]int{
		codes.Canceled:           499,
		codes.InvalidArgument:    400,
		codes.DeadlineExceeded:   504,
		codes.NotFound:           404,
		codes.AlreadyExists:      409,
		codes.PermissionDenied:   403,
		codes.ResourceExhausted:  429,
		codes.FailedPrecondition: 412,
		codes.Aborted:            409,
		codes.OutOfRange:         400,
		codes.Unimplemented:      501,
		codes.Internal:           500,
		codes.Unavailable:        503,
		codes.DataLoss:           500,
		codes.Unauthenticated:    401,
	}

	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", code, got, want)
		}
	}

	if got := HTTPStatus(codes.OK); got != 500 {
		t.Fatalf("HTTPStatus(OK) must fallback to 500, got %d", got)
	}
}

func TestToHTTP_WritesJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFields(map[string]string{"cpf": "invalid_cpf"}).WithDomain("cpf").ToHTTP(rec)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body struct {
		Code       string            `json:"code"`
		Reason     string            `json:"reason"`
		Domain     string            `json:"domain"`
		Details    map[string]string `json:"details"`
		Violations []FieldViolation  `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "InvalidArgument" || body.Reason != "validation_failed" || body.Domain != "cpf" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Details["cpf"] != "invalid_cpf" || len(body.Violations) != 1 {
		t.Fatalf("unexpected details/violations: %+v", body)
	}
}

func TestToHTTPStatus_OverridesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Unimplemented().WithReason("method_not_allowed").ToHTTPStatus(rec, http.StatusMethodNotAllowed)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
