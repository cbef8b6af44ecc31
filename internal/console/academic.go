package console

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chrimztech/unza-counseling-console/internal/analysis"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httputil"
)

// AcademicReport is the body of the academic report route.
type AcademicReport struct {
	ClientID string                `json:"clientId"`
	Student  *domain.StudentInfo   `json:"studentInfo,omitempty"`
	Summary  domain.ResultsSummary `json:"summary"`
	Report   analysis.Report       `json:"report"`
}

// academicReport derives the risk and trend report from the cached SIS
// results; the SIS itself is never contacted.
func (s *Server) academicReport(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	res, err := s.academic.Cached(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	report, err := BuildAcademicReport(clientID, res, s.now())
	if err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: report})
}

// BuildAcademicReport analyses cached results. A response without a
// summary or courses is reported as not found.
func BuildAcademicReport(clientID string, res *domain.SyncResultsResponse, now time.Time) (AcademicReport, error) {
	if res == nil || (res.Summary == nil && len(res.Courses) == 0) {
		return AcademicReport{}, apperrors.NotFound("academic results for client", clientID)
	}

	var summary domain.ResultsSummary
	if res.Summary != nil {
		summary = *res.Summary
	}
	return AcademicReport{
		ClientID: clientID,
		Student:  res.StudentInfo,
		Summary:  summary,
		Report:   analysis.ComprehensiveReport(res.Courses, summary, now),
	}, nil
}
