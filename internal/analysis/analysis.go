// Package analysis derives academic risk and trend indicators from SIS
// results. Every function here is pure.
package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

// RiskLevel classifies the academic pressure on a student.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Trend is the direction of the two most recent semester averages.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// Thresholds.
const (
	lowGPA         = 2.0
	minPassRate    = 0.7
	maxFailed      = 2
	trendThreshold = 0.2
	highRiskCount  = 3
)

// AcademicSummary is the numeric basis of an assessment. PassRate is a
// percentage.
type AcademicSummary struct {
	GPA           float64 `json:"gpa"`
	PassRate      float64 `json:"passRate"`
	FailedCourses int     `json:"failedCourses"`
}

// AcademicRiskAssessment is the result of AssessAcademicImpact.
type AcademicRiskAssessment struct {
	RiskLevel       RiskLevel       `json:"riskLevel"`
	RiskFactors     []string        `json:"riskFactors"`
	Recommendations []string        `json:"recommendations"`
	AcademicSummary AcademicSummary `json:"academicSummary"`
}

// PerformanceTrend is the result of AnalyzeTrends. SemesterData maps
// "<academicYear>_<semester>" to the mean grade point of that semester.
type PerformanceTrend struct {
	Trend        Trend              `json:"trend"`
	SemesterData map[string]float64 `json:"semesterData"`
	Analysis     string             `json:"analysis"`
}

// Report combines the risk assessment and the trend analysis.
type Report struct {
	RiskAssessment  AcademicRiskAssessment `json:"riskAssessment"`
	TrendAnalysis   PerformanceTrend       `json:"trendAnalysis"`
	GeneratedAt     time.Time              `json:"generatedAt"`
	Recommendations []string               `json:"recommendations"`
}

// AssessAcademicImpact counts the risk factors present in summary. Three or
// more is HIGH, one or two is MODERATE.
//
// A missing or zero average GPA is treated as "no data" rather than a low
// GPA. With no courses on record the pass rate is zero.
func AssessAcademicImpact(summary domain.ResultsSummary) AcademicRiskAssessment {
	gpa := deref(summary.AverageGPA)
	failed := deref(summary.FailedCourses)
	total := deref(summary.TotalCourses)

	var passRate float64
	if total > 0 {
		passRate = float64(deref(summary.PassedCourses)) / float64(total)
	}

	factors := []string{}
	recommendations := []string{}
	if gpa > 0 && gpa < lowGPA {
		factors = append(factors, "Low GPA below 2.0 - Academic probation risk")
		recommendations = append(recommendations, "Consider academic counseling support")
	}
	if passRate < minPassRate {
		factors = append(factors, "Pass rate below 70%")
		recommendations = append(recommendations, "Review study habits and time management")
	}
	if failed > maxFailed {
		factors = append(factors, "Multiple failed courses")
		recommendations = append(recommendations, "Discuss course difficulty with advisors")
	}

	level := RiskLow
	switch {
	case len(factors) >= highRiskCount:
		level = RiskHigh
	case len(factors) > 0:
		level = RiskModerate
	}

	return AcademicRiskAssessment{
		RiskLevel:       level,
		RiskFactors:     factors,
		Recommendations: recommendations,
		AcademicSummary: AcademicSummary{
			GPA:           gpa,
			PassRate:      passRate * 100,
			FailedCourses: failed,
		},
	}
}

// AnalyzeTrends groups courses by academic year and semester, averages the
// grade points of each group and compares the last two groups in key order.
// Courses without a grade point are ignored; a group with none is dropped.
func AnalyzeTrends(courses []domain.CourseHistory) PerformanceTrend {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)
	for _, c := range courses {
		if c.GradePoint == nil {
			continue
		}
		key := semesterKey(c)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.sum += *c.GradePoint
		g.n++
	}

	data := make(map[string]float64, len(groups))
	for key, g := range groups {
		data[key] = g.sum / float64(g.n)
	}

	trend := TrendStable
	if keys := sortedKeys(data); len(keys) >= 2 {
		recent := data[keys[len(keys)-1]]
		previous := data[keys[len(keys)-2]]
		switch {
		case recent > previous+trendThreshold:
			trend = TrendImproving
		case recent < previous-trendThreshold:
			trend = TrendDeclining
		}
	}

	return PerformanceTrend{
		Trend:        trend,
		SemesterData: data,
		Analysis:     trendAnalysis(trend),
	}
}

// ComprehensiveReport runs both analyses. A declining trend adds a
// counseling-session recommendation after the risk recommendations.
func ComprehensiveReport(courses []domain.CourseHistory, summary domain.ResultsSummary, now time.Time) Report {
	risk := AssessAcademicImpact(summary)
	trend := AnalyzeTrends(courses)

	recommendations := slices.Clone(risk.Recommendations)
	if trend.Trend == TrendDeclining {
		recommendations = append(recommendations, "Schedule a counseling session to discuss academic challenges")
	}

	return Report{
		RiskAssessment:  risk,
		TrendAnalysis:   trend,
		GeneratedAt:     now.UTC(),
		Recommendations: recommendations,
	}
}

func trendAnalysis(t Trend) string {
	switch t {
	case TrendImproving:
		return "Academic performance is improving. Continue with current study strategies."
	case TrendDeclining:
		return "Academic performance is declining. Consider seeking academic support early."
	default:
		return "Academic performance is stable. Maintain consistent effort."
	}
}

func semesterKey(c domain.CourseHistory) string {
	return fmt.Sprintf("%s_%s", c.AcademicYear, c.Semester)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func deref[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
