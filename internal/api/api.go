package api

import (
	"log/slog"
	"time"

	"github.com/chrimztech/unza-counseling-console/internal/session"
)

// API groups the wrappers of every backend resource over one sender.
type API struct {
	Auth              *AuthAPI
	Users             *UsersAPI
	Clients           *ClientsAPI
	Counselors        *CounselorsAPI
	Appointments      *AppointmentsAPI
	Sessions          *SessionsAPI
	RiskAssessments   *RiskAssessmentsAPI
	Messages          *MessagesAPI
	Notifications     *NotificationsAPI
	Dashboard         *DashboardAPI
	Analytics         *AnalyticsAPI
	Consent           *ConsentAPI
	Resources         *ResourcesAPI
	PersonalDataForms *PersonalDataFormsAPI
	Academic          *AcademicAPI
}

// Options configures New.
type Options struct {
	// Store receives the credential on login and is cleared on logout.
	Store session.Store
	// UserAgent is reported when signing consent forms.
	UserAgent string
	Logger    *slog.Logger
	Now       func() time.Time
}

// New builds every resource wrapper around sender.
func New(sender Sender, opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := client{sender: sender, logger: opts.Logger}

	return &API{
		Auth:              &AuthAPI{client: c, store: opts.Store, now: opts.Now},
		Users:             &UsersAPI{c},
		Clients:           &ClientsAPI{c},
		Counselors:        &CounselorsAPI{c},
		Appointments:      &AppointmentsAPI{c},
		Sessions:          &SessionsAPI{c},
		RiskAssessments:   &RiskAssessmentsAPI{c},
		Messages:          &MessagesAPI{c},
		Notifications:     &NotificationsAPI{c},
		Dashboard:         &DashboardAPI{c},
		Analytics:         &AnalyticsAPI{c},
		Consent:           &ConsentAPI{client: c, userAgent: opts.UserAgent},
		Resources:         &ResourcesAPI{c},
		PersonalDataForms: &PersonalDataFormsAPI{c},
		Academic:          &AcademicAPI{c},
	}
}
