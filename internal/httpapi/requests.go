package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	errs "github.com/vortex-fintech/go-cpf/errors"
)

type valueRequest struct {
	Value string `json:"value"`
}

type formatResponse struct {
	Formatted string `json:"formatted"`
}

type validateResponse struct {
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted"`
	Reason    string `json:"reason,omitempty"`
}

// submitRequest mirrors the sign-in form: both fields are required and the
// CPF must pass the checksum.
type submitRequest struct {
	CPF      string `json:"cpf" validate:"required,cpf"`
	Password string `json:"password" validate:"required"`
}

type submitResponse struct {
	CPF      string `json:"cpf"`
	Accepted bool   `json:"accepted"`
}

var errTrailingData = errors.New("body must contain a single JSON object")

// decodeJSON reads exactly one JSON object of at most maxBytes into dst.
// The returned error is raw decoder output; see decodeError for what the
// client sees.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	err := dec.Decode(&struct{}{})
	if errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errTrailingData
}

// decodeError maps a decodeJSON error to a client response. Details name
// JSON fields only, never Go types.
func decodeError(err error) errs.ErrorResponse {
	var (
		tooLarge  *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &tooLarge):
		return errs.InvalidArgument().WithReason("body_too_large").WithMessage("Request body too large")
	case errors.Is(err, errTrailingData):
		return errs.MalformedBody(errTrailingData.Error())
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return errs.MalformedBody("body must be a JSON object")
		}
		return errs.MalformedBody(fmt.Sprintf("field %q has the wrong type", typeErr.Field))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errs.MalformedBody("invalid JSON")
	case errors.Is(err, io.EOF):
		return errs.MalformedBody("empty body")
	}
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return errs.MalformedBody("unknown field " + name)
	}
	return errs.MalformedBody("invalid JSON")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
