package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/pkg/pagination"
)

var appointmentRoutes = struct {
	List, Get, Create, Update, ByCounselor, ByStudent, ByClient,
	Upcoming, Past, Cancelled, Confirmed, Pending, Today,
	Cancel, Confirm, Reschedule, Availability, Stats, Export Route
}{
	List:         Route{Name: "appointments.list", Method: http.MethodGet, Path: "v1/appointments", Unwrap: Enveloped},
	Get:          Route{Name: "appointments.get", Method: http.MethodGet, Path: "v1/appointments/{id}", Unwrap: Enveloped},
	Create:       Route{Name: "appointments.create", Method: http.MethodPost, Path: "v1/appointments", Unwrap: Enveloped},
	Update:       Route{Name: "appointments.update", Method: http.MethodPut, Path: "v1/appointments/{id}", Unwrap: Enveloped},
	ByCounselor:  Route{Name: "appointments.by_counselor", Method: http.MethodGet, Path: "v1/appointments/counselor/{counselorId}", Unwrap: Enveloped},
	ByStudent:    Route{Name: "appointments.by_student", Method: http.MethodGet, Path: "v1/appointments/student/{studentId}", Unwrap: Enveloped},
	ByClient:     Route{Name: "appointments.by_client", Method: http.MethodGet, Path: "v1/appointments/client/{clientId}", Unwrap: Enveloped},
	Upcoming:     Route{Name: "appointments.upcoming", Method: http.MethodGet, Path: "v1/appointments/upcoming", Unwrap: Enveloped},
	Past:         Route{Name: "appointments.past", Method: http.MethodGet, Path: "v1/appointments/past", Unwrap: Enveloped},
	Cancelled:    Route{Name: "appointments.cancelled", Method: http.MethodGet, Path: "v1/appointments/cancelled", Unwrap: Enveloped},
	Confirmed:    Route{Name: "appointments.confirmed", Method: http.MethodGet, Path: "v1/appointments/confirmed", Unwrap: Enveloped},
	Pending:      Route{Name: "appointments.pending", Method: http.MethodGet, Path: "v1/appointments/pending", Unwrap: Enveloped},
	Today:        Route{Name: "appointments.today", Method: http.MethodGet, Path: "v1/appointments/today", Unwrap: Enveloped},
	Cancel:       Route{Name: "appointments.cancel", Method: http.MethodPut, Path: "v1/appointments/{id}/cancel", Unwrap: Enveloped},
	Confirm:      Route{Name: "appointments.confirm", Method: http.MethodPut, Path: "v1/appointments/{id}/confirm", Unwrap: Enveloped},
	Reschedule:   Route{Name: "appointments.reschedule", Method: http.MethodPut, Path: "v1/appointments/{id}/reschedule", Unwrap: Enveloped},
	Availability: Route{Name: "appointments.availability", Method: http.MethodGet, Path: "v1/appointments/availability", Unwrap: Enveloped},
	Stats:        Route{Name: "appointments.stats", Method: http.MethodGet, Path: "v1/appointments/stats", Unwrap: Enveloped},
	Export:       Route{Name: "appointments.export", Method: http.MethodGet, Path: "v1/appointments/export", Unwrap: Binary},
}

// AppointmentsAPI books and manages counseling appointments.
type AppointmentsAPI struct{ client }

func (a *AppointmentsAPI) page(ctx context.Context, rt Route, p pagination.Params, params ...string) (*domain.Page[domain.Appointment], error) {
	return invoke[*domain.Page[domain.Appointment]](ctx, &a.client, rt, call{params: params, query: p.Query(nil)})
}

func (a *AppointmentsAPI) List(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.List, p)
}

func (a *AppointmentsAPI) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Get, withParams(id))
}

func (a *AppointmentsAPI) Create(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Create, call{body: req})
}

func (a *AppointmentsAPI) Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Update, call{params: []string{id}, body: req})
}

func (a *AppointmentsAPI) ByCounselor(ctx context.Context, counselorID string, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.ByCounselor, p, counselorID)
}

func (a *AppointmentsAPI) ByStudent(ctx context.Context, studentID string, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.ByStudent, p, studentID)
}

func (a *AppointmentsAPI) ByClient(ctx context.Context, clientID string, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.ByClient, p, clientID)
}

func (a *AppointmentsAPI) Upcoming(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Upcoming, p)
}

func (a *AppointmentsAPI) Past(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Past, p)
}

func (a *AppointmentsAPI) Cancelled(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Cancelled, p)
}

func (a *AppointmentsAPI) Confirmed(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Confirmed, p)
}

func (a *AppointmentsAPI) Pending(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Pending, p)
}

func (a *AppointmentsAPI) Today(ctx context.Context, p pagination.Params) (*domain.Page[domain.Appointment], error) {
	return a.page(ctx, appointmentRoutes.Today, p)
}

// Cancel cancels an appointment; the reason may be empty.
func (a *AppointmentsAPI) Cancel(ctx context.Context, id, reason string) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Cancel, call{
		params: []string{id},
		body:   domain.CancelRequest{CancellationReason: reason},
	})
}

func (a *AppointmentsAPI) Confirm(ctx context.Context, id string) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Confirm, withParams(id))
}

func (a *AppointmentsAPI) Reschedule(ctx context.Context, id string, req domain.RescheduleRequest) (*domain.Appointment, error) {
	return invoke[*domain.Appointment](ctx, &a.client, appointmentRoutes.Reschedule, call{params: []string{id}, body: req})
}

// Availability returns the free time slots of a counselor on a date
// (YYYY-MM-DD).
func (a *AppointmentsAPI) Availability(ctx context.Context, counselorID, date string) ([]string, error) {
	q := url.Values{"counselorId": {counselorID}, "date": {date}}
	return invoke[[]string](ctx, &a.client, appointmentRoutes.Availability, call{query: q})
}

func (a *AppointmentsAPI) Stats(ctx context.Context) (domain.Stats, error) {
	return invoke[domain.Stats](ctx, &a.client, appointmentRoutes.Stats, call{})
}

// Export downloads appointments as csv or pdf, optionally bounded by
// startDate and endDate.
func (a *AppointmentsAPI) Export(ctx context.Context, format, startDate, endDate string) (*Download, error) {
	q, err := exportQuery(format, FormatCSV, FormatPDF)
	if err != nil {
		return nil, err
	}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	return a.download(ctx, appointmentRoutes.Export, call{query: q})
}
