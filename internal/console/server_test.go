package console

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chrimztech/unza-counseling-console/internal/api"
	"github.com/chrimztech/unza-counseling-console/internal/consent"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/internal/viewmodel"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/health"
)

// --- Fakes ---

type fakeConsent struct {
	mu        sync.Mutex
	signed    bool
	form      *domain.ConsentForm
	signErr   error
	signCalls int
}

func (f *fakeConsent) CheckSigned(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signed
}

func (f *fakeConsent) LatestForm(context.Context) *domain.ConsentForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *fakeConsent) Sign(_ context.Context, req domain.SignConsentRequest) (*domain.UserConsent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	if f.signErr != nil {
		return nil, f.signErr
	}
	f.signed = true
	return &domain.UserConsent{ConsentFormID: req.ConsentFormID}, nil
}

type fakeSource struct {
	all      []domain.Resource
	featured []domain.Resource
	allErr   error
	queries  []string
	download *api.Download
	dlErr    error
	dlIDs    []string
}

func (f *fakeSource) All(context.Context) ([]domain.Resource, error) {
	return f.all, f.allErr
}

func (f *fakeSource) Search(_ context.Context, query string) ([]domain.Resource, error) {
	f.queries = append(f.queries, query)
	var out []domain.Resource
	for _, r := range f.all {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) ByType(_ context.Context, t string) ([]domain.Resource, error) {
	var out []domain.Resource
	for _, r := range f.all {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) ByCategory(_ context.Context, c string) ([]domain.Resource, error) {
	var out []domain.Resource
	for _, r := range f.all {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) Featured(context.Context) ([]domain.Resource, error) {
	return f.featured, nil
}

func (f *fakeSource) Highlights(context.Context) ([]domain.Resource, error) {
	return f.featured, nil
}

func (f *fakeSource) Categories(context.Context) ([]string, error) {
	return []string{"Wellbeing", "Study Skills"}, nil
}

func (f *fakeSource) Download(_ context.Context, id string) (*api.Download, error) {
	f.dlIDs = append(f.dlIDs, id)
	return f.download, f.dlErr
}

type mockAcademic struct {
	mock.Mock
}

func (m *mockAcademic) Cached(ctx context.Context, clientID string) (*domain.SyncResultsResponse, error) {
	args := m.Called(ctx, clientID)
	res, _ := args.Get(0).(*domain.SyncResultsResponse)
	return res, args.Error(1)
}

// --- Harness ---

var testForm = &domain.ConsentForm{ID: "3", Title: "Counseling Consent", Version: "2.1", Active: true}

var testResources = []domain.Resource{
	{ID: "1", Title: "Managing Exam Stress", Type: "ARTICLE", Category: "Wellbeing", Featured: true},
	{ID: "2", Title: "Time Management Workbook", Type: "PDF", Category: "Study Skills"},
	{ID: "3", Title: "Sleep and Stress", Type: "VIDEO", Category: "Wellbeing"},
}

type harness struct {
	handler  http.Handler
	consent  *fakeConsent
	source   *fakeSource
	academic *mockAcademic
	library  *viewmodel.ResourceLibrary
	gates    *consent.Registry

	mu       sync.Mutex
	operator string
}

func (h *harness) signIn(operator string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.operator = operator
}

func (h *harness) currentOperator(context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.operator, nil
}

func gatesFrom(reg *consent.Registry) func(string) Gate {
	return func(operator string) Gate { return reg.For(operator) }
}

func newHarness(t *testing.T, signed bool) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &harness{
		consent:  &fakeConsent{signed: signed, form: testForm},
		source:   &fakeSource{all: testResources, featured: testResources[:1]},
		academic: &mockAcademic{},
		operator: "42",
	}
	h.gates = consent.NewRegistry(h.consent, consent.Options{Logger: logger})
	h.library = viewmodel.NewResourceLibrary(h.source, viewmodel.Options{Logger: logger})
	t.Cleanup(h.library.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h.handler = NewRouter(ctx, Deps{
		Library:  h.library,
		Gates:    gatesFrom(h.gates),
		Academic: h.academic,
		Health:   health.NewHandler(),
		Operator: h.currentOperator,
		Logger:   logger,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}, Limits{RPS: 1000, Burst: 1000})
	return h
}

func (h *harness) do(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) viewmodel.State {
	t.Helper()
	var st viewmodel.State
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &st))
	return st
}

func titles(items []domain.Resource) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.Title)
	}
	return out
}

// --- Operator and consent ---

func TestConsole_RequiresOperator(t *testing.T) {
	h := newHarness(t, true)
	h.handler = NewRouter(context.Background(), Deps{
		Library:  h.library,
		Gates:    gatesFrom(consent.NewRegistry(h.consent, consent.Options{})),
		Academic: h.academic,
		Operator: func(context.Context) (string, error) { return "", nil },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Limits{RPS: 1000, Burst: 1000})

	rec := h.do(t, http.MethodGet, "/console/resources", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConsole_ConsentIsPerOperator(t *testing.T) {
	h := newHarness(t, true)
	h.signIn("alice")

	rec := h.do(t, http.MethodGet, "/console/resources", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	h.consent.mu.Lock()
	h.consent.signed = false
	h.consent.mu.Unlock()
	h.signIn("bob")

	rec = h.do(t, http.MethodGet, "/console/resources", "")
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONSENT_REQUIRED", env.Error.Code)

	h.signIn("alice")
	rec = h.do(t, http.MethodGet, "/console/resources", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConsole_ResetGatesRechecksConsent(t *testing.T) {
	h := newHarness(t, true)

	rec := h.do(t, http.MethodGet, "/console/resources", "")
	require.Equal(t, http.StatusOK, rec.Code)

	h.consent.mu.Lock()
	h.consent.signed = false
	h.consent.mu.Unlock()
	h.gates.Reset()

	rec = h.do(t, http.MethodGet, "/console/resources", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConsole_ConsentStatus(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(t, http.MethodGet, "/console/consent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var st consent.Status
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &st))
	assert.Equal(t, consent.PhaseBlocked, st.Phase)
	require.NotNil(t, st.Form)
	assert.Equal(t, "Counseling Consent", st.Form.Title)
}

func TestConsole_ProtectedRoutesBlockedUntilSigned(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(t, http.MethodGet, "/console/resources", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONSENT_REQUIRED", env.Error.Code)

	var st consent.Status
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, consent.PhaseBlocked, st.Phase)
}

func TestConsole_SignConsent(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
	}{
		{name: "missing agreed", body: `{}`, wantCode: http.StatusBadRequest, wantError: "VALIDATION_ERROR"},
		{name: "not agreed", body: `{"agreed":false}`, wantCode: http.StatusBadRequest, wantError: "VALIDATION_ERROR"},
		{name: "malformed", body: `{"agreed":`, wantCode: http.StatusBadRequest, wantError: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false)
			require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/console/consent", "").Code)

			rec := h.do(t, http.MethodPost, "/console/consent/sign", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			env := decode(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantError, env.Error.Code)
			assert.Zero(t, h.consent.signCalls)
		})
	}
}

func TestConsole_SignConsent_UnlocksResources(t *testing.T) {
	h := newHarness(t, false)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/console/consent", "").Code)

	rec := h.do(t, http.MethodPost, "/console/consent/sign", `{"agreed":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var st consent.Status
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &st))
	assert.Equal(t, consent.PhaseAllowed, st.Phase)
	assert.Equal(t, 1, h.consent.signCalls)

	rec = h.do(t, http.MethodGet, "/console/resources?query=stress", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConsole_SignConsent_NothingPending(t *testing.T) {
	h := newHarness(t, true)

	rec := h.do(t, http.MethodPost, "/console/consent/sign", `{"agreed":true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONSENT_NOT_PENDING", env.Error.Code)
}

func TestConsole_SignConsent_BackendMessageShown(t *testing.T) {
	h := newHarness(t, false)
	h.consent.signErr = &apperrors.HTTPError{Status: http.StatusBadRequest, Message: "Consent form is no longer active"}
	require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/console/consent", "").Code)

	rec := h.do(t, http.MethodPost, "/console/consent/sign", `{"agreed":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Consent form is no longer active", env.Error.Message)

	// Still blocked on the same form.
	rec = h.do(t, http.MethodGet, "/console/resources", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// --- Resources ---

func TestConsole_ListResources(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{name: "search", target: "/console/resources?query=stress", want: []string{"Managing Exam Stress", "Sleep and Stress"}},
		{name: "type", target: "/console/resources?type=PDF", want: []string{"Time Management Workbook"}},
		{name: "category", target: "/console/resources?category=Wellbeing", want: []string{"Managing Exam Stress", "Sleep and Stress"}},
		{name: "featured", target: "/console/resources?featured=true", want: []string{"Managing Exam Stress"}},
		{name: "query wins over type", target: "/console/resources?query=workbook&type=VIDEO", want: []string{"Time Management Workbook"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			rec := h.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			st := decodeState(t, rec)
			assert.Equal(t, tt.want, titles(st.Items))
			assert.False(t, st.Loading)
			assert.Empty(t, st.Error)
		})
	}
}

func TestConsole_ListResources_NoActionReturnsCurrentState(t *testing.T) {
	h := newHarness(t, true)

	rec := h.do(t, http.MethodGet, "/console/resources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeState(t, rec).Items)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/console/resources/refresh", "").Code)

	rec = h.do(t, http.MethodGet, "/console/resources", "")
	assert.Len(t, decodeState(t, rec).Items, len(testResources))
}

func TestConsole_RefreshFailure_ReportedInState(t *testing.T) {
	h := newHarness(t, true)
	h.source.allErr = &apperrors.HTTPError{Status: http.StatusInternalServerError}

	rec := h.do(t, http.MethodPost, "/console/resources/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeState(t, rec)
	assert.Equal(t, viewmodel.MsgLoadFailed, st.Error)
	assert.Empty(t, st.Items)
}

func TestConsole_ListResources_AfterCloseIsUnavailable(t *testing.T) {
	h := newHarness(t, true)
	h.library.Close()

	rec := h.do(t, http.MethodGet, "/console/resources?query=stress", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConsole_DownloadResource(t *testing.T) {
	h := newHarness(t, true)
	h.source.download = &api.Download{
		Data:        []byte("%PDF-1.4 workbook"),
		FileName:    "time management.pdf",
		ContentType: "application/pdf",
	}

	rec := h.do(t, http.MethodGet, "/console/resources/2/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="time management.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "17", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.4 workbook", rec.Body.String())
	assert.Equal(t, []string{"2"}, h.source.dlIDs)
}

func TestConsole_DownloadResource_DefaultsContentType(t *testing.T) {
	h := newHarness(t, true)
	h.source.download = &api.Download{Data: []byte("x"), FileName: "download"}

	rec := h.do(t, http.MethodGet, "/console/resources/9/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestConsole_DownloadResource_InvalidID(t *testing.T) {
	h := newHarness(t, true)

	for _, id := range []string{"abc", "0", "-4"} {
		rec := h.do(t, http.MethodGet, "/console/resources/"+id+"/download", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
	assert.Empty(t, h.source.dlIDs)
}

func TestConsole_DownloadResource_BackendNotFound(t *testing.T) {
	h := newHarness(t, true)
	h.source.dlErr = &apperrors.HTTPError{Status: http.StatusNotFound, Message: "Resource not found"}

	rec := h.do(t, http.MethodGet, "/console/resources/5/download", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Resource not found", env.Error.Message)
}

// --- Academic report ---

func ptr[T any](v T) *T { return &v }

func TestConsole_AcademicReport(t *testing.T) {
	h := newHarness(t, true)
	h.academic.On("Cached", mock.Anything, "17").Return(&domain.SyncResultsResponse{
		Success: true,
		Summary: &domain.ResultsSummary{
			TotalCourses:  ptr(4),
			PassedCourses: ptr(2),
			FailedCourses: ptr(2),
			AverageGPA:    ptr(1.8),
		},
		Courses: []domain.CourseHistory{
			{CourseCode: "MAT1100", AcademicYear: "2024", Semester: "1", GradePoint: ptr(3.0)},
			{CourseCode: "MAT1200", AcademicYear: "2025", Semester: "1", GradePoint: ptr(1.0)},
		},
		StudentInfo: &domain.StudentInfo{StudentID: "2021001", FirstName: "Mwila"},
	}, nil)

	rec := h.do(t, http.MethodGet, "/console/clients/17/academic-report", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report AcademicReport
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &report))
	assert.Equal(t, "17", report.ClientID)
	require.NotNil(t, report.Student)
	assert.Equal(t, "2021001", report.Student.StudentID)
	assert.NotEmpty(t, report.Report.RiskAssessment.RiskLevel)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), report.Report.GeneratedAt)
	h.academic.AssertExpectations(t)
}

func TestConsole_AcademicReport_NoResults(t *testing.T) {
	tests := []struct {
		name string
		res  *domain.SyncResultsResponse
	}{
		{name: "nil", res: nil},
		{name: "empty", res: &domain.SyncResultsResponse{Success: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			h.academic.On("Cached", mock.Anything, "17").Return(tt.res, nil)

			rec := h.do(t, http.MethodGet, "/console/clients/17/academic-report", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestConsole_AcademicReport_BackendUnreachable(t *testing.T) {
	h := newHarness(t, true)
	h.academic.On("Cached", mock.Anything, "17").
		Return(nil, &apperrors.NetworkError{Method: http.MethodGet, URL: "http://backend", Err: errors.New("refused")})

	rec := h.do(t, http.MethodGet, "/console/clients/17/academic-report", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// --- Health and metrics ---

func TestConsole_HealthAndMetrics(t *testing.T) {
	h := newHarness(t, false)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/ready", "").Code)

	_ = h.do(t, http.MethodGet, "/console/consent", "")
	rec := h.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/console/consent",service="console",status="200"}`)
}
