package consent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chrimztech/unza-counseling-console/internal/api"
	"github.com/chrimztech/unza-counseling-console/internal/audit"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httpclient"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type mockService struct {
	mock.Mock
}

func (m *mockService) CheckSigned(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockService) LatestForm(ctx context.Context) *domain.ConsentForm {
	f, _ := m.Called(ctx).Get(0).(*domain.ConsentForm)
	return f
}

func (m *mockService) Sign(ctx context.Context, req domain.SignConsentRequest) (*domain.UserConsent, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*domain.UserConsent)
	return c, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) ConsentSigned(ctx context.Context, data audit.ConsentSignedData) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockRecorder) SessionExpired(ctx context.Context, data audit.SessionExpiredData) error {
	return m.Called(ctx, data).Error(0)
}

var form7 = &domain.ConsentForm{ID: "7", Title: "Counseling consent", Version: "2.1", Active: true}

func TestCheck_SignedIsAllowed(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(true)

	g := NewGate(svc, Options{Logger: quietLogger()})
	assert.Equal(t, PhaseLoading, g.Status().Phase)

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseAllowed, s.Phase)
	svc.AssertNotCalled(t, "LatestForm", mock.Anything)
}

func TestCheck_UnsignedWithFormBlocks(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(form7)

	required := 0
	g := NewGate(svc, Options{Logger: quietLogger(), OnConsentRequired: func() { required++ }})

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseBlocked, s.Phase)
	require.NotNil(t, s.Form)
	assert.Equal(t, domain.ID("7"), s.Form.ID)
	assert.Zero(t, required)
	assert.False(t, g.Allowed())
}

func TestCheck_UnsignedWithoutFormNotifiesAndAllows(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(nil)

	required := 0
	g := NewGate(svc, Options{Logger: quietLogger(), OnConsentRequired: func() { required++ }})

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseAllowed, s.Phase)
	assert.Equal(t, 1, required)
}

func TestCheck_CancelledStaysLoading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(false)

	g := NewGate(svc, Options{Logger: quietLogger()})
	s, err := g.Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseLoading, s.Phase)
	svc.AssertNotCalled(t, "LatestForm", mock.Anything)
}

func TestSubmit_WithoutAgreementSendsNothing(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(form7)

	g := NewGate(svc, Options{Logger: quietLogger()})
	_, err := g.Check(context.Background())
	require.NoError(t, err)

	err = g.Submit(context.Background(), false)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgMustAgree, verr.Message)
	assert.Equal(t, MsgMustAgree, g.Status().Error)
	assert.Equal(t, PhaseBlocked, g.Status().Phase)
	svc.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestSubmit_FailureStaysBlockedWithMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &apperrors.HTTPError{Status: http.StatusBadRequest, Message: "Consent form is no longer active"}, "Consent form is no longer active"},
		{"no message", &apperrors.HTTPError{Status: http.StatusInternalServerError}, MsgSignFailed},
		{"network", &apperrors.NetworkError{Err: errors.New("refused")}, MsgSignFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("CheckSigned", mock.Anything).Return(false)
			svc.On("LatestForm", mock.Anything).Return(form7).Once()
			svc.On("Sign", mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			svc.On("Sign", mock.Anything, mock.Anything).Return(&domain.UserConsent{ID: "1"}, nil).Once()

			completed := 0
			g := NewGate(svc, Options{Logger: quietLogger(), OnConsentComplete: func() { completed++ }})
			_, err := g.Check(context.Background())
			require.NoError(t, err)

			require.ErrorIs(t, g.Submit(context.Background(), true), tt.err)
			s := g.Status()
			assert.Equal(t, PhaseBlocked, s.Phase)
			assert.Equal(t, tt.want, s.Error)
			assert.False(t, s.Submitting)
			assert.Zero(t, completed)

			// Retry uses the form already on screen.
			require.NoError(t, g.Submit(context.Background(), true))
			assert.Equal(t, PhaseAllowed, g.Status().Phase)
			assert.Equal(t, 1, completed)
			svc.AssertNumberOfCalls(t, "LatestForm", 1)
		})
	}
}

func TestCheck_WhileBlockedKeepsFailureAndForm(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(form7).Once()
	svc.On("Sign", mock.Anything, mock.Anything).
		Return(nil, &apperrors.HTTPError{Status: http.StatusBadRequest, Message: "Signature service unavailable"}).Once()

	g := NewGate(svc, Options{Logger: quietLogger()})
	_, err := g.Check(context.Background())
	require.NoError(t, err)
	require.Error(t, g.Submit(context.Background(), true))

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseBlocked, s.Phase)
	assert.Equal(t, "Signature service unavailable", s.Error)
	require.NotNil(t, s.Form)
	assert.Equal(t, domain.ID("7"), s.Form.ID)
	svc.AssertNumberOfCalls(t, "LatestForm", 1)
}

func TestCheck_WhileBlockedNoticesSignatureElsewhere(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false).Once()
	svc.On("CheckSigned", mock.Anything).Return(true)
	svc.On("LatestForm", mock.Anything).Return(form7).Once()

	g := NewGate(svc, Options{Logger: quietLogger()})
	_, err := g.Check(context.Background())
	require.NoError(t, err)

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseAllowed, s.Phase)
}

func TestCheck_DuringSubmitDoesNotAllowSecondSignature(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(form7)
	svc.On("Sign", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&domain.UserConsent{ID: "1"}, nil)

	g := NewGate(svc, Options{Logger: quietLogger()})
	_, err := g.Check(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- g.Submit(context.Background(), true) }()
	<-entered

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseBlocked, s.Phase)
	assert.True(t, s.Submitting)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, g.Submit(context.Background(), true), &verr)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, g.Allowed())
	svc.AssertNumberOfCalls(t, "Sign", 1)
}

func TestSubmit_RecordsAuditEvent(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(false)
	svc.On("LatestForm", mock.Anything).Return(form7)
	svc.On("Sign", mock.Anything, domain.SignConsentRequest{ConsentFormID: "7", IPAddress: "10.0.0.4", UserAgent: "counselctl/test"}).
		Return(&domain.UserConsent{ID: "99", IPAddress: "10.0.0.4", UserAgent: "counselctl/test"}, nil)

	rec := &mockRecorder{}
	rec.On("ConsentSigned", mock.Anything, audit.ConsentSignedData{
		ConsentFormID: "7",
		Version:       "2.1",
		IPAddress:     "10.0.0.4",
		UserAgent:     "counselctl/test",
	}).Return(errors.New("broker down"))

	g := NewGate(svc, Options{Logger: quietLogger(), Audit: rec, IPAddress: "10.0.0.4", UserAgent: "counselctl/test"})
	_, err := g.Check(context.Background())
	require.NoError(t, err)

	require.NoError(t, g.Submit(context.Background(), true), "audit failures do not undo the signature")
	assert.True(t, g.Allowed())
	rec.AssertExpectations(t)
}

func TestSubmit_NotBlocked(t *testing.T) {
	g := NewGate(&mockService{}, Options{Logger: quietLogger()})
	assert.ErrorIs(t, g.Submit(context.Background(), true), ErrNotBlocked)
}

func TestAllowed_NeverReverts(t *testing.T) {
	svc := &mockService{}
	svc.On("CheckSigned", mock.Anything).Return(true).Once()

	g := NewGate(svc, Options{Logger: quietLogger()})
	_, err := g.Check(context.Background())
	require.NoError(t, err)

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseAllowed, s.Phase)
	svc.AssertNumberOfCalls(t, "CheckSigned", 1)
}

// TestGate_SignsFormSevenOverHTTP drives the gate through the real client
// stack against a fake backend.
func TestGate_SignsFormSevenOverHTTP(t *testing.T) {
	var (
		mu       sync.Mutex
		signHits int
		signBody map[string]any
		total    int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		total++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/consent/check-signed":
			_, _ = io.WriteString(w, `false`)
		case "/api/consent/forms/latest":
			_, _ = io.WriteString(w, `{"id":7,"title":"Counseling consent","content":"<p>terms</p>","version":"1.0","active":true}`)
		case "/api/consent/sign":
			mu.Lock()
			signHits++
			_ = json.NewDecoder(r.Body).Decode(&signBody)
			mu.Unlock()
			_, _ = io.WriteString(w, `{"id":1,"consentFormId":7,"ipAddress":"unknown"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.BaseURL = srv.URL + "/api"
	cfg.Timeout = 2 * time.Second
	hc, err := httpclient.New(cfg, nil, httpclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	backend := api.New(hc, api.Options{Logger: quietLogger(), UserAgent: "counselctl/test"})

	completed := 0
	g := NewGate(backend.Consent, Options{Logger: quietLogger(), OnConsentComplete: func() { completed++ }})

	s, err := g.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseBlocked, s.Phase)
	require.Equal(t, domain.ID("7"), s.Form.ID)

	mu.Lock()
	before := total
	mu.Unlock()

	var verr *apperrors.ValidationError
	require.ErrorAs(t, g.Submit(context.Background(), false), &verr)
	mu.Lock()
	assert.Equal(t, before, total, "unchecked submit must not reach the network")
	mu.Unlock()

	require.NoError(t, g.Submit(context.Background(), true))
	assert.Equal(t, PhaseAllowed, g.Status().Phase)
	assert.Equal(t, 1, completed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, signHits)
	assert.Equal(t, float64(7), signBody["consentFormId"])
}
