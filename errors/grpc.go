package errors

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

// Violation reasons travel in ErrorInfo metadata under this prefix because
// BadRequest_FieldViolation has no reason field.
const violationReasonMetadataPrefix = "_errors.violation_reason."

func (e ErrorResponse) ToGRPC() error {
	st := status.New(e.Code, e.Message)

	metadata := cloneDetails(e.Details)
	for _, v := range e.Violations {
		if v.Field == "" || v.Reason == "" {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[violationReasonMetadataPrefix+v.Field] = v.Reason
	}

	if e.Reason != "" || len(metadata) > 0 || e.Domain != "" {
		ei := &errdetails.ErrorInfo{
			Reason:   string(e.Reason),
			Domain:   e.Domain,
			Metadata: metadata,
		}
		if st2, err := st.WithDetails(ei); err == nil {
			st = st2
		}
	}

	if len(e.Violations) > 0 && e.Code == codes.InvalidArgument {
		br := &errdetails.BadRequest{
			FieldViolations: make([]*errdetails.BadRequest_FieldViolation, 0, len(e.Violations)),
		}
		for _, v := range e.Violations {
			desc := v.Description
			if desc == "" {
				desc = v.Reason
			}
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: desc,
			})
		}
		if st2, err := st.WithDetails(br); err == nil {
			st = st2
		}
	}

	return st.Err()
}

func FromGRPC(err error) ErrorResponse {
	st, ok := status.FromError(err)
	if !ok {
		return Unknown()
	}
	out := New(st.Message(), st.Code(), nil)
	var violationReasons map[string]string
	for _, d := range st.Details() {
		switch x := d.(type) {
		case *errdetails.ErrorInfo:
			if x.GetReason() != "" {
				out.Reason = Reason(x.GetReason())
			}
			if dom := x.GetDomain(); dom != "" {
				out.Domain = dom
			}
			details := make(map[string]string, len(x.GetMetadata()))
			for k, v := range x.GetMetadata() {
				if field, ok := strings.CutPrefix(k, violationReasonMetadataPrefix); ok {
					if field == "" {
						continue
					}
					if violationReasons == nil {
						violationReasons = map[string]string{}
					}
					violationReasons[field] = v
					continue
				}
				details[k] = v
			}
			out = out.WithDetails(details)
		case *errdetails.BadRequest:
			if len(x.FieldViolations) == 0 {
				continue
			}
			vs := make([]FieldViolation, 0, len(x.FieldViolations))
			for _, fv := range x.FieldViolations {
				vs = append(vs, FieldViolation{Field: fv.GetField(), Description: fv.GetDescription()})
			}
			out.Violations = vs
		}
	}
	// ErrorInfo may arrive after BadRequest, so reasons are attached last.
	for i := range out.Violations {
		if r, ok := violationReasons[out.Violations[i].Field]; ok {
			out.Violations[i].Reason = r
		}
	}
	return out
}
