package api

import (
	"context"
	"net/http"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

var personalDataRoutes = struct {
	Create, ByClient, ByFileNo, Update, Delete Route
}{
	Create:   Route{Name: "personal_data.create", Method: http.MethodPost, Path: "v1/personal-data-forms/clients/{clientId}"},
	ByClient: Route{Name: "personal_data.by_client", Method: http.MethodGet, Path: "v1/personal-data-forms/clients/{clientId}"},
	ByFileNo: Route{Name: "personal_data.by_file_no", Method: http.MethodGet, Path: "v1/personal-data-forms/file/{clientFileNo}"},
	Update:   Route{Name: "personal_data.update", Method: http.MethodPut, Path: "v1/personal-data-forms/clients/{clientId}"},
	Delete:   Route{Name: "personal_data.delete", Method: http.MethodDelete, Path: "v1/personal-data-forms/clients/{clientId}"},
}

// PersonalDataFormsAPI manages client intake forms.
type PersonalDataFormsAPI struct{ client }

func (p *PersonalDataFormsAPI) Create(ctx context.Context, clientID string, req domain.PersonalDataFormRequest) (*domain.PersonalDataForm, error) {
	return invoke[*domain.PersonalDataForm](ctx, &p.client, personalDataRoutes.Create, call{params: []string{clientID}, body: req})
}

func (p *PersonalDataFormsAPI) ByClient(ctx context.Context, clientID string) (*domain.PersonalDataForm, error) {
	return invoke[*domain.PersonalDataForm](ctx, &p.client, personalDataRoutes.ByClient, withParams(clientID))
}

func (p *PersonalDataFormsAPI) ByFileNo(ctx context.Context, clientFileNo string) (*domain.PersonalDataForm, error) {
	return invoke[*domain.PersonalDataForm](ctx, &p.client, personalDataRoutes.ByFileNo, withParams(clientFileNo))
}

func (p *PersonalDataFormsAPI) Update(ctx context.Context, clientID string, req domain.PersonalDataFormRequest) (*domain.PersonalDataForm, error) {
	return invoke[*domain.PersonalDataForm](ctx, &p.client, personalDataRoutes.Update, call{params: []string{clientID}, body: req})
}

func (p *PersonalDataFormsAPI) Delete(ctx context.Context, clientID string) error {
	return exec(ctx, &p.client, personalDataRoutes.Delete, withParams(clientID))
}
