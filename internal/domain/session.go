package domain

// AppointmentRef is the appointment summary embedded in a session.
type AppointmentRef struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	AppointmentDate string `json:"appointmentDate"`
}

// Session is a counseling session record.
type Session struct {
	ID               ID              `json:"id"`
	Client           PersonRef       `json:"client"`
	Counselor        PersonRef       `json:"counselor"`
	Appointment      *AppointmentRef `json:"appointment,omitempty"`
	SessionDate      string          `json:"sessionDate"`
	Duration         int             `json:"duration"`
	SessionType      string          `json:"sessionType"`
	Notes            string          `json:"notes,omitempty"`
	FollowUpRequired bool            `json:"followUpRequired"`
	FollowUpDate     string          `json:"followUpDate,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

// CreateSessionRequest records a new session.
type CreateSessionRequest struct {
	AppointmentID    int64  `json:"appointmentId,omitempty"`
	ClientID         int64  `json:"clientId" validate:"required,gt=0"`
	CounselorID      int64  `json:"counselorId" validate:"required,gt=0"`
	SessionDate      string `json:"sessionDate" validate:"required"`
	Duration         int    `json:"duration" validate:"required,gt=0"`
	SessionType      string `json:"sessionType" validate:"required"`
	Notes            string `json:"notes,omitempty"`
	FollowUpRequired bool   `json:"followUpRequired,omitempty"`
	FollowUpDate     string `json:"followUpDate,omitempty"`
}

// UpdateSessionRequest changes a session.
type UpdateSessionRequest struct {
	SessionDate      string `json:"sessionDate,omitempty"`
	Duration         int    `json:"duration,omitempty" validate:"omitempty,gt=0"`
	SessionType      string `json:"sessionType,omitempty"`
	Notes            string `json:"notes,omitempty"`
	FollowUpRequired *bool  `json:"followUpRequired,omitempty"`
	FollowUpDate     string `json:"followUpDate,omitempty"`
	Status           string `json:"status,omitempty" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}
