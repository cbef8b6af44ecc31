package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

func course(year, semester string, gp *float64) domain.CourseHistory {
	return domain.CourseHistory{CourseCode: "C" + year + semester, AcademicYear: year, Semester: semester, GradePoint: gp}
}

func TestAssessAcademicImpact_ThreeFactorsIsHigh(t *testing.T) {
	summary := domain.ResultsSummary{
		AverageGPA:    floatp(1.8),
		TotalCourses:  intp(10),
		PassedCourses: intp(6),
		FailedCourses: intp(3),
	}

	got := AssessAcademicImpact(summary)

	assert.Equal(t, RiskHigh, got.RiskLevel)
	assert.Equal(t, []string{
		"Low GPA below 2.0 - Academic probation risk",
		"Pass rate below 70%",
		"Multiple failed courses",
	}, got.RiskFactors)
	assert.Equal(t, []string{
		"Consider academic counseling support",
		"Review study habits and time management",
		"Discuss course difficulty with advisors",
	}, got.Recommendations)
	assert.Equal(t, AcademicSummary{GPA: 1.8, PassRate: 60, FailedCourses: 3}, got.AcademicSummary)
}

func TestAssessAcademicImpact_Levels(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.ResultsSummary
		level   RiskLevel
		factors int
	}{
		{
			name:    "healthy",
			summary: domain.ResultsSummary{AverageGPA: floatp(3.2), TotalCourses: intp(8), PassedCourses: intp(8), FailedCourses: intp(0)},
			level:   RiskLow,
		},
		{
			name:    "low gpa only",
			summary: domain.ResultsSummary{AverageGPA: floatp(1.9), TotalCourses: intp(8), PassedCourses: intp(7), FailedCourses: intp(1)},
			level:   RiskModerate,
			factors: 1,
		},
		{
			name:    "pass rate exactly seventy percent",
			summary: domain.ResultsSummary{AverageGPA: floatp(2.5), TotalCourses: intp(10), PassedCourses: intp(7), FailedCourses: intp(2)},
			level:   RiskLow,
		},
		{
			name:    "gpa exactly two",
			summary: domain.ResultsSummary{AverageGPA: floatp(2.0), TotalCourses: intp(4), PassedCourses: intp(4)},
			level:   RiskLow,
		},
		{
			name:    "two factors",
			summary: domain.ResultsSummary{AverageGPA: floatp(2.4), TotalCourses: intp(10), PassedCourses: intp(5), FailedCourses: intp(5)},
			level:   RiskModerate,
			factors: 2,
		},
		{
			name:    "no courses counts as zero pass rate",
			summary: domain.ResultsSummary{},
			level:   RiskModerate,
			factors: 1,
		},
		{
			name:    "zero gpa is no data",
			summary: domain.ResultsSummary{AverageGPA: floatp(0), TotalCourses: intp(2), PassedCourses: intp(2)},
			level:   RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessAcademicImpact(tt.summary)
			assert.Equal(t, tt.level, got.RiskLevel)
			assert.Len(t, got.RiskFactors, tt.factors)
			assert.Len(t, got.Recommendations, tt.factors)
		})
	}
}

func TestAnalyzeTrends_Improving(t *testing.T) {
	courses := []domain.CourseHistory{
		course("2023", "2", floatp(3.0)),
		course("2023", "1", floatp(2.0)),
		course("2023", "1", floatp(3.0)),
		course("2023", "2", floatp(3.0)),
	}

	got := AnalyzeTrends(courses)

	assert.Equal(t, TrendImproving, got.Trend)
	assert.Equal(t, map[string]float64{"2023_1": 2.5, "2023_2": 3.0}, got.SemesterData)
	assert.Equal(t, "Academic performance is improving. Continue with current study strategies.", got.Analysis)
}

func TestAnalyzeTrends_Classification(t *testing.T) {
	tests := []struct {
		name    string
		courses []domain.CourseHistory
		want    Trend
	}{
		{"no courses", nil, TrendStable},
		{"single semester", []domain.CourseHistory{course("2023", "1", floatp(3.5))}, TrendStable},
		{"declining", []domain.CourseHistory{course("2022", "1", floatp(3.4)), course("2022", "2", floatp(2.9))}, TrendDeclining},
		{"within threshold", []domain.CourseHistory{course("2022", "1", floatp(3.0)), course("2022", "2", floatp(3.15))}, TrendStable},
		{"compares only the last two", []domain.CourseHistory{
			course("2021", "1", floatp(1.0)),
			course("2022", "1", floatp(3.0)),
			course("2022", "2", floatp(3.1)),
		}, TrendStable},
		{"ungraded semester dropped", []domain.CourseHistory{
			course("2022", "1", floatp(2.0)),
			course("2022", "2", floatp(2.8)),
			course("2023", "1", nil),
		}, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeTrends(tt.courses).Trend)
		})
	}
}

func TestAnalyzeTrends_SkipsMissingGradePoints(t *testing.T) {
	got := AnalyzeTrends([]domain.CourseHistory{
		course("2024", "1", floatp(4.0)),
		course("2024", "1", nil),
	})
	assert.Equal(t, map[string]float64{"2024_1": 4.0}, got.SemesterData)
}

func TestComprehensiveReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CAT", 2*60*60))
	declining := []domain.CourseHistory{course("2025", "1", floatp(3.5)), course("2025", "2", floatp(2.5))}
	summary := domain.ResultsSummary{AverageGPA: floatp(1.5), TotalCourses: intp(4), PassedCourses: intp(4)}

	report := ComprehensiveReport(declining, summary, now)

	assert.Equal(t, RiskModerate, report.RiskAssessment.RiskLevel)
	assert.Equal(t, TrendDeclining, report.TrendAnalysis.Trend)
	assert.Equal(t, now.UTC(), report.GeneratedAt)
	assert.Equal(t, []string{
		"Consider academic counseling support",
		"Schedule a counseling session to discuss academic challenges",
	}, report.Recommendations)
	assert.Len(t, report.RiskAssessment.Recommendations, 1, "risk recommendations are not mutated")

	stable := ComprehensiveReport(nil, summary, now)
	assert.Equal(t, []string{"Consider academic counseling support"}, stable.Recommendations)
}
