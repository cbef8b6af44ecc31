package domain

// RiskAssessment is a clinical risk evaluation of a client.
type RiskAssessment struct {
	ID               ID        `json:"id"`
	Client           PersonRef `json:"client"`
	AssessmentType   string    `json:"assessmentType"`
	RiskLevel        string    `json:"riskLevel"`
	Score            float64   `json:"score"`
	Factors          []string  `json:"factors"`
	Recommendations  []string  `json:"recommendations"`
	AssessedBy       PersonRef `json:"assessedBy"`
	AssessmentDate   string    `json:"assessmentDate"`
	Notes            string    `json:"notes,omitempty"`
	Escalated        bool      `json:"escalated"`
	FollowUpRequired bool      `json:"followUpRequired"`
	FollowUpDate     string    `json:"followUpDate,omitempty"`
	CreatedAt        string    `json:"createdAt,omitempty"`
	UpdatedAt        string    `json:"updatedAt,omitempty"`
}

// CreateRiskAssessmentRequest records an assessment.
type CreateRiskAssessmentRequest struct {
	ClientID        int64    `json:"clientId" validate:"required,gt=0"`
	AssessmentType  string   `json:"assessmentType" validate:"required"`
	RiskLevel       string   `json:"riskLevel" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Score           float64  `json:"score" validate:"gte=0"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes,omitempty"`
}

// UpdateRiskAssessmentRequest changes an assessment.
type UpdateRiskAssessmentRequest struct {
	AssessmentType   string   `json:"assessmentType,omitempty"`
	RiskLevel        string   `json:"riskLevel,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Score            *float64 `json:"score,omitempty"`
	Factors          []string `json:"factors,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	Escalated        *bool    `json:"escalated,omitempty"`
	FollowUpRequired *bool    `json:"followUpRequired,omitempty"`
	FollowUpDate     string   `json:"followUpDate,omitempty"`
}
