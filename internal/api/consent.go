package api

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

// unknownIPAddress is sent when the caller cannot tell the client address.
const unknownIPAddress = "unknown"

var consentRoutes = struct {
	CheckSigned, LatestForm, ActiveForms, Sign, History Route
}{
	CheckSigned: Route{Name: "consent.check_signed", Method: http.MethodGet, Path: "consent/check-signed", Failure: Fallback},
	LatestForm:  Route{Name: "consent.latest_form", Method: http.MethodGet, Path: "consent/forms/latest", Failure: Fallback},
	ActiveForms: Route{Name: "consent.active_forms", Method: http.MethodGet, Path: "consent/forms/active", Failure: Fallback},
	Sign:        Route{Name: "consent.sign", Method: http.MethodPost, Path: "consent/sign"},
	History:     Route{Name: "consent.history", Method: http.MethodGet, Path: "consent/history", Failure: Fallback},
}

// ConsentAPI reads and signs consent forms. Its reads never fail: a broken
// backend must not lock operators out, so failures degrade to defaults.
type ConsentAPI struct {
	client
	userAgent string
}

// CheckSigned reports whether the current user signed the active form.
// Any failure reads as signed.
func (c *ConsentAPI) CheckSigned(ctx context.Context) bool {
	signed, _ := invokeOr(ctx, &c.client, consentRoutes.CheckSigned, call{}, true)
	return signed
}

// LatestForm returns the newest active form, or nil when there is none or
// it could not be fetched.
func (c *ConsentAPI) LatestForm(ctx context.Context) *domain.ConsentForm {
	form, _ := invokeOr[*domain.ConsentForm](ctx, &c.client, consentRoutes.LatestForm, call{}, nil)
	return form
}

// ActiveForms lists every active form; failures read as none.
func (c *ConsentAPI) ActiveForms(ctx context.Context) []domain.ConsentForm {
	forms, _ := invokeOr(ctx, &c.client, consentRoutes.ActiveForms, call{}, []domain.ConsentForm{})
	if forms == nil {
		return []domain.ConsentForm{}
	}
	return forms
}

// Sign records the user's agreement. Missing client details are filled in
// before sending; failures propagate.
func (c *ConsentAPI) Sign(ctx context.Context, req domain.SignConsentRequest) (*domain.UserConsent, error) {
	if req.IPAddress == "" {
		req.IPAddress = unknownIPAddress
	}
	if req.UserAgent == "" {
		req.UserAgent = c.userAgent
	}
	return invoke[*domain.UserConsent](ctx, &c.client, consentRoutes.Sign, call{body: req})
}

// History lists the user's past signatures; failures read as none.
func (c *ConsentAPI) History(ctx context.Context) []domain.UserConsent {
	history, _ := invokeOr(ctx, &c.client, consentRoutes.History, call{}, []domain.UserConsent{})
	if history == nil {
		return []domain.UserConsent{}
	}
	return history
}
