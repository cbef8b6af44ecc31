// Package consent implements the consent gate: protected features stay
// blocked until the signed-in user has agreed to the active consent form.
//
// The gate fails open. When the backend cannot say whether consent is
// needed, or has no form to present, access is allowed.
package consent

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/chrimztech/unza-counseling-console/internal/audit"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

// User-facing messages.
const (
	MsgMustAgree  = "You must agree to the consent terms to continue."
	MsgSignFailed = "Failed to sign consent. Please try again."
)

// ErrNotBlocked is returned by Submit when there is no form awaiting a
// signature.
var ErrNotBlocked = errors.New("consent gate is not awaiting a signature")

// Phase is the state of a Gate.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseBlocked Phase = "blocked"
	PhaseAllowed Phase = "allowed"
)

// Service is the consent backend. *api.ConsentAPI satisfies it.
type Service interface {
	CheckSigned(ctx context.Context) bool
	LatestForm(ctx context.Context) *domain.ConsentForm
	Sign(ctx context.Context, req domain.SignConsentRequest) (*domain.UserConsent, error)
}

// Options configures a Gate.
type Options struct {
	// OnConsentRequired is called when consent is outstanding but there is
	// no form to present.
	OnConsentRequired func()
	// OnConsentComplete is called after a successful signature.
	OnConsentComplete func()
	// IPAddress and UserAgent are sent with the signature when known.
	IPAddress string
	UserAgent string
	Audit     audit.Recorder
	Logger    *slog.Logger
}

// Status is a snapshot of the gate.
type Status struct {
	Phase      Phase               `json:"phase"`
	Form       *domain.ConsentForm `json:"form,omitempty"`
	Error      string              `json:"error,omitempty"`
	Submitting bool                `json:"submitting"`
}

// Gate guards access behind a consent signature.
type Gate struct {
	svc    Service
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	status Status
}

// NewGate creates a gate in the loading phase.
func NewGate(svc Service, opts Options) *Gate {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Audit == nil {
		opts.Audit = audit.Nop{}
	}
	return &Gate{
		svc:    svc,
		opts:   opts,
		logger: opts.Logger,
		status: Status{Phase: PhaseLoading},
	}
}

// Status returns the current snapshot.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// Allowed reports whether protected features may be shown.
func (g *Gate) Allowed() bool {
	return g.Status().Phase == PhaseAllowed
}

// Check asks the backend whether consent is outstanding. A gate that is
// already allowed is left alone. A blocked gate keeps its form, the message
// of a failed submission and any submission in flight; it only asks whether
// consent was signed elsewhere. Only a cancelled ctx is reported as an
// error; the gate then stays where it was.
func (g *Gate) Check(ctx context.Context) (Status, error) {
	s := g.Status()
	switch {
	case s.Phase == PhaseAllowed:
		return s, nil
	case s.Phase == PhaseBlocked && s.Submitting:
		return s, nil
	}
	log := logger.WithContext(ctx, g.logger)

	signed := g.svc.CheckSigned(ctx)
	if err := ctx.Err(); err != nil {
		return g.Status(), err
	}
	if signed {
		log.DebugContext(ctx, "consent already signed")
		return g.allow(), nil
	}
	if s.Phase == PhaseBlocked {
		return g.Status(), nil
	}

	form := g.svc.LatestForm(ctx)
	if err := ctx.Err(); err != nil {
		return g.Status(), err
	}
	if form == nil {
		log.InfoContext(ctx, "consent outstanding but no active form, allowing")
		if g.opts.OnConsentRequired != nil {
			g.opts.OnConsentRequired()
		}
		return g.allow(), nil
	}

	g.mu.Lock()
	if g.status.Phase == PhaseLoading {
		g.status = Status{Phase: PhaseBlocked, Form: form}
	}
	s = g.snapshot()
	g.mu.Unlock()

	log.InfoContext(ctx, "consent required", slog.String("consent_form_id", form.ID.String()))
	return s, nil
}

// Submit signs the presented form. Without agreement nothing is sent and a
// *errors.ValidationError is returned. A failed signature keeps the gate
// blocked on the same form so the user can retry.
func (g *Gate) Submit(ctx context.Context, agreed bool) error {
	g.mu.Lock()
	if g.status.Phase != PhaseBlocked || g.status.Form == nil {
		g.mu.Unlock()
		return ErrNotBlocked
	}
	if !agreed {
		g.status.Error = MsgMustAgree
		g.mu.Unlock()
		return apperrors.NewValidationError(MsgMustAgree, map[string]string{"agreed": "must be checked"})
	}
	if g.status.Submitting {
		g.mu.Unlock()
		return apperrors.NewValidationError("A signature is already being submitted.", nil)
	}
	form := g.status.Form
	g.status.Submitting = true
	g.status.Error = ""
	g.mu.Unlock()

	log := logger.WithContext(ctx, g.logger)
	req := domain.SignConsentRequest{
		ConsentFormID: form.ID,
		IPAddress:     g.opts.IPAddress,
		UserAgent:     g.opts.UserAgent,
	}
	signed, err := g.svc.Sign(ctx, req)
	if err != nil {
		msg := apperrors.UserMessage(err, MsgSignFailed)
		g.mu.Lock()
		g.status.Submitting = false
		g.status.Error = msg
		g.mu.Unlock()
		log.WarnContext(ctx, "consent signature failed",
			slog.String("consent_form_id", form.ID.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	g.allow()
	log.InfoContext(ctx, "consent signed", slog.String("consent_form_id", form.ID.String()))

	data := audit.ConsentSignedData{
		ConsentFormID: form.ID.String(),
		Version:       form.Version,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
	}
	if signed != nil {
		if signed.IPAddress != "" {
			data.IPAddress = signed.IPAddress
		}
		if signed.UserAgent != "" {
			data.UserAgent = signed.UserAgent
		}
	}
	if err := g.opts.Audit.ConsentSigned(ctx, data); err != nil {
		log.WarnContext(ctx, "failed to record consent audit event", slog.String("error", err.Error()))
	}

	if g.opts.OnConsentComplete != nil {
		g.opts.OnConsentComplete()
	}
	return nil
}

func (g *Gate) allow() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = Status{Phase: PhaseAllowed}
	return g.snapshot()
}

// snapshot copies the status. Callers hold g.mu.
func (g *Gate) snapshot() Status {
	s := g.status
	if s.Form != nil {
		f := *s.Form
		s.Form = &f
	}
	return s
}
