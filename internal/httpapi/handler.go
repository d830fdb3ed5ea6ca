// Package httpapi exposes CPF formatting and validation as a JSON API,
// together with the sign-in submission flow that consumes them.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vortex-fintech/go-cpf/cpf"
	errs "github.com/vortex-fintech/go-cpf/errors"
	"github.com/vortex-fintech/go-cpf/logger"
	"github.com/vortex-fintech/go-cpf/validator"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 4 << 10

// errorDomain is set on every ErrorResponse written by this package.
const errorDomain = "cpf"

type Options struct {
	Log          logger.LoggerInterface
	Metrics      *Metrics
	MaxBodyBytes int64
}

type Handler struct {
	log     logger.LoggerInterface
	metrics *Metrics
	maxBody int64
}

func New(opts Options) *Handler {
	h := &Handler{log: opts.Log, metrics: opts.Metrics, maxBody: opts.MaxBodyBytes}
	if h.log == nil {
		h.log = logger.NewFromZap(zap.NewNop())
	}
	if h.maxBody <= 0 {
		h.maxBody = DefaultMaxBodyBytes
	}
	return h
}

// Register mounts the CPF endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/cpf", func(r chi.Router) {
		r.Post("/format", h.HandleFormat)
		r.Post("/validate", h.HandleValidate)
		r.Post("/submit", h.HandleSubmit)
	})
}

// Routes returns a router with the CPF endpoints and the request id,
// access log and panic recovery middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, accessLog(h.log, h.metrics), recoverer(h.log))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errs.NotFound().WithDomain(errorDomain).ToHTTP(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", http.MethodPost)
		errs.Unimplemented().
			WithReason("method_not_allowed").
			WithMessage("Method not allowed").
			WithDomain(errorDomain).
			ToHTTPStatus(w, http.StatusMethodNotAllowed)
	})
	h.Register(r)
	return r
}

// decode reads the request body into dst. On failure it logs the decoder
// error, writes a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(w, r, h.maxBody, dst)
	if err == nil {
		return true
	}
	h.log.WarnwCtx(r.Context(), "request body rejected", "path", r.URL.Path, "err", err)
	decodeError(err).WithDomain(errorDomain).ToHTTP(w)
	return false
}

// HandleFormat handles POST /v1/cpf/format. It is called on every keystroke
// and never fails on content, only on a malformed body.
func (h *Handler) HandleFormat(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.metrics.incFormat()
	writeJSON(w, http.StatusOK, formatResponse{Formatted: cpf.Format(req.Value)})
}

// HandleValidate handles POST /v1/cpf/validate. An invalid CPF is a normal
// 200 answer with valid=false and a reason code.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !h.decode(w, r, &req) {
		return
	}

	reason := cpf.Reason(cpf.Check(req.Value))
	h.metrics.observeValidation(reason)
	h.log.WithCPF(req.Value).InfowCtx(r.Context(), "cpf validated", "valid", reason == "", "reason", reason)

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:     reason == "",
		Formatted: cpf.Format(req.Value),
		Reason:    reason,
	})
}

// HandleSubmit handles POST /v1/cpf/submit, the sign-in form submission.
// The password is checked for presence only and never logged.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.CPF != "" {
		h.metrics.observeValidation(cpf.Reason(cpf.Check(req.CPF)))
	}
	if err := validator.ValidateStruct(req); err != nil {
		h.log.WarnwCtx(r.Context(), "submission rejected",
			"fields", logger.RedactFields(map[string]string{"cpf": req.CPF, "password": req.Password}),
			"err", err,
		)
		errs.ToErrorResponse(err).WithDomain(errorDomain).ToHTTP(w)
		return
	}

	h.log.WithCPF(req.CPF).InfowCtx(r.Context(), "submission accepted")
	writeJSON(w, http.StatusOK, submitResponse{CPF: cpf.Format(req.CPF), Accepted: true})
}
