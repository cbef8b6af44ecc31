package console

import (
	"errors"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/consent"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httputil"
	pkgmiddleware "github.com/chrimztech/unza-counseling-console/pkg/middleware"
	"github.com/chrimztech/unza-counseling-console/pkg/validator"
)

type signRequest struct {
	Agreed *bool `json:"agreed" validate:"required"`
}

// gate returns the consent gate of the operator making the request.
func (s *Server) gate(r *http.Request) Gate {
	return s.gates(pkgmiddleware.UserIDFromContext(r.Context()))
}

// consentStatus runs the gate check and reports the phase, with the form
// to sign when blocked.
func (s *Server) consentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.gate(r).Check(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: status})
}

func (s *Server) signConsent(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	gate := s.gate(r)
	if err := gate.Submit(r.Context(), *req.Agreed); err != nil {
		if errors.Is(err, consent.ErrNotBlocked) {
			err = &apperrors.AppError{
				Code:    "CONSENT_NOT_PENDING",
				Message: "no consent form is awaiting a signature",
				Status:  http.StatusConflict,
				Err:     apperrors.ErrConflict,
			}
		}
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: gate.Status()})
}

// requireConsent blocks protected routes until the gate allows access. The
// response carries the form so the caller can present it.
func (s *Server) requireConsent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, err := s.gate(r).Check(r.Context())
		if err != nil {
			httputil.WriteError(w, r, err, s.logger)
			return
		}
		if status.Phase != consent.PhaseAllowed {
			httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
				Data: status,
				Error: &httputil.ErrorResponse{
					Code:    "CONSENT_REQUIRED",
					Message: "sign the consent form first: POST /console/consent/sign",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
