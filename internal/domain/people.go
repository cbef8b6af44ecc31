package domain

// Client is a student receiving counseling.
type Client struct {
	ID               ID     `json:"id"`
	User             *User  `json:"user,omitempty"`
	StudentID        string `json:"studentId,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// ClientRequest creates or updates a client.
type ClientRequest struct {
	StudentID        string `json:"studentId,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Gender           string `json:"gender,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
}

// Counselor is a member of counseling staff.
type Counselor struct {
	ID                       ID     `json:"id"`
	FirstName                string `json:"firstName"`
	LastName                 string `json:"lastName"`
	Email                    string `json:"email"`
	PhoneNumber              string `json:"phoneNumber,omitempty"`
	Specialization           string `json:"specialization,omitempty"`
	Qualifications           string `json:"qualifications,omitempty"`
	YearsOfExperience        int    `json:"yearsOfExperience,omitempty"`
	LicenseNumber            string `json:"licenseNumber,omitempty"`
	AvailableForAppointments bool   `json:"availableForAppointments"`
	Department               string `json:"department,omitempty"`
	Bio                      string `json:"bio,omitempty"`
	CreatedAt                string `json:"createdAt,omitempty"`
	UpdatedAt                string `json:"updatedAt,omitempty"`
}

// DashboardStats is the landing page summary.
type DashboardStats struct {
	TotalClients          int `json:"totalClients"`
	TotalAppointments     int `json:"totalAppointments"`
	UpcomingAppointments  int `json:"upcomingAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	AtRiskStudents        int `json:"atRiskStudents"`
	TotalSessions         int `json:"totalSessions"`
}
