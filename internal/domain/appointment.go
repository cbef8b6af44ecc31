package domain

// Appointment types.
const (
	AppointmentInitialConsultation = "INITIAL_CONSULTATION"
	AppointmentFollowUp            = "FOLLOW_UP"
	AppointmentGroupSession        = "GROUP_SESSION"
	AppointmentAssessment          = "ASSESSMENT"
	AppointmentCrisisIntervention  = "CRISIS_INTERVENTION"
)

// Appointment is a scheduled meeting between a student and a counselor.
type Appointment struct {
	ID                 ID        `json:"id"`
	Title              string    `json:"title"`
	Student            PersonRef `json:"student"`
	Counselor          PersonRef `json:"counselor"`
	AppointmentDate    string    `json:"appointmentDate"`
	Duration           int       `json:"duration"`
	Type               string    `json:"type"`
	Status             string    `json:"status"`
	Description        string    `json:"description,omitempty"`
	MeetingLink        string    `json:"meetingLink,omitempty"`
	Location           string    `json:"location,omitempty"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	ReminderSent       bool      `json:"reminderSent"`
	CreatedAt          string    `json:"createdAt,omitempty"`
	UpdatedAt          string    `json:"updatedAt,omitempty"`
}

// CreateAppointmentRequest books a new appointment. AppointmentDate is a
// local ISO timestamp such as 2026-02-05T10:00:00.
type CreateAppointmentRequest struct {
	StudentID       int64  `json:"studentId" validate:"required,gt=0"`
	CounselorID     int64  `json:"counselorId" validate:"required,gt=0"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description,omitempty"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=INITIAL_CONSULTATION FOLLOW_UP GROUP_SESSION ASSESSMENT CRISIS_INTERVENTION"`
}

// UpdateAppointmentRequest changes an appointment.
type UpdateAppointmentRequest struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	AppointmentDate string `json:"appointmentDate,omitempty"`
	Type            string `json:"type,omitempty" validate:"omitempty,oneof=INITIAL_CONSULTATION FOLLOW_UP GROUP_SESSION ASSESSMENT CRISIS_INTERVENTION"`
	Status          string `json:"status,omitempty" validate:"omitempty,oneof=SCHEDULED CONFIRMED IN_PROGRESS COMPLETED CANCELLED NO_SHOW RESCHEDULED"`
}

// RescheduleRequest moves an appointment.
type RescheduleRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
}

// CancelRequest carries the optional cancellation reason.
type CancelRequest struct {
	CancellationReason string `json:"cancellationReason,omitempty"`
}
