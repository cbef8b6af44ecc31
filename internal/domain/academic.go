package domain

// CourseHistory is one course result pulled from the student information
// system. Optional numeric fields are pointers so that "absent" and "zero"
// stay distinguishable.
type CourseHistory struct {
	CourseCode     string   `json:"courseCode"`
	CourseTitle    string   `json:"courseTitle"`
	CreditHours    *float64 `json:"creditHours,omitempty"`
	Semester       string   `json:"semester,omitempty"`
	AcademicYear   string   `json:"academicYear,omitempty"`
	Grade          string   `json:"grade,omitempty"`
	GradePoint     *float64 `json:"gradePoint,omitempty"`
	Marks          *float64 `json:"marks,omitempty"`
	Status         string   `json:"status,omitempty"`
	CourseType     string   `json:"courseType,omitempty"`
	AssessmentType string   `json:"assessmentType,omitempty"`
}

// StudentInfo is the SIS student profile.
type StudentInfo struct {
	StudentID             string   `json:"studentId,omitempty"`
	FirstName             string   `json:"firstName,omitempty"`
	LastName              string   `json:"lastName,omitempty"`
	Programme             string   `json:"programme,omitempty"`
	Faculty               string   `json:"faculty,omitempty"`
	Department            string   `json:"department,omitempty"`
	YearOfStudy           *int     `json:"yearOfStudy,omitempty"`
	CurrentGPA            *float64 `json:"currentGpa,omitempty"`
	CumulativeGPA         *float64 `json:"cumulativeGpa,omitempty"`
	TotalCreditsEarned    *float64 `json:"totalCreditsEarned,omitempty"`
	TotalCreditsAttempted *float64 `json:"totalCreditsAttempted,omitempty"`
	Classification        string   `json:"classification,omitempty"`
}

// ResultsSummary aggregates a student's course results.
type ResultsSummary struct {
	TotalCourses          *int     `json:"totalCourses,omitempty"`
	PassedCourses         *int     `json:"passedCourses,omitempty"`
	FailedCourses         *int     `json:"failedCourses,omitempty"`
	WithdrawnCourses      *int     `json:"withdrawnCourses,omitempty"`
	IncompleteCourses     *int     `json:"incompleteCourses,omitempty"`
	AverageGrade          *float64 `json:"averageGrade,omitempty"`
	AverageGPA            *float64 `json:"averageGpa,omitempty"`
	CurrentGPA            *float64 `json:"currentGpa,omitempty"`
	CumulativeGPA         *float64 `json:"cumulativeGpa,omitempty"`
	TotalCreditsEarned    *float64 `json:"totalCreditsEarned,omitempty"`
	TotalCreditsAttempted *float64 `json:"totalCreditsAttempted,omitempty"`
	AcademicStanding      string   `json:"academicStanding,omitempty"`
	PerformanceTrend      string   `json:"performanceTrend,omitempty"`
}

// SyncResultsResponse is returned by the SIS sync and cache endpoints.
type SyncResultsResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	ErrorType   string          `json:"errorType,omitempty"`
	Summary     *ResultsSummary `json:"summary,omitempty"`
	Courses     []CourseHistory `json:"courses,omitempty"`
	StudentInfo *StudentInfo    `json:"studentInfo,omitempty"`
}
