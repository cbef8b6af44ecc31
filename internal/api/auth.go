package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/internal/session"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

var authRoutes = struct {
	Login, Register, Logout, Profile, Refresh Route
}{
	Login:    Route{Name: "auth.login", Method: http.MethodPost, Path: "v1/auth/login"},
	Register: Route{Name: "auth.register", Method: http.MethodPost, Path: "v1/auth/register"},
	Logout:   Route{Name: "auth.logout", Method: http.MethodPost, Path: "v1/auth/logout"},
	Profile:  Route{Name: "auth.profile", Method: http.MethodGet, Path: "v1/auth/profile"},
	Refresh:  Route{Name: "auth.refresh", Method: http.MethodPost, Path: "v1/auth/refresh"},
}

// AuthAPI signs the operator in and out and keeps the credential store in
// step with the backend.
type AuthAPI struct {
	client
	store session.Store
	now   func() time.Time
}

// Login authenticates and persists the returned token and user profile.
func (a *AuthAPI) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	resp, err := invoke[*domain.AuthResponse](ctx, &a.client, authRoutes.Login, call{body: req})
	if err != nil {
		return nil, err
	}
	if err := a.persist(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Register creates an account. When the backend signs the new user in
// directly the credential is persisted as for Login.
func (a *AuthAPI) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	resp, err := invoke[*domain.AuthResponse](ctx, &a.client, authRoutes.Register, call{body: req})
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Token != "" {
		if err := a.persist(ctx, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Logout notifies the backend and clears the local credential. The
// credential is cleared even when the backend call fails.
func (a *AuthAPI) Logout(ctx context.Context) error {
	callErr := exec(ctx, &a.client, authRoutes.Logout, call{})
	if a.store != nil {
		if err := a.store.Clear(ctx); err != nil {
			return errors.Join(callErr, err)
		}
	}
	return callErr
}

// Profile returns the signed-in user.
func (a *AuthAPI) Profile(ctx context.Context) (*domain.User, error) {
	return invoke[*domain.User](ctx, &a.client, authRoutes.Profile, call{})
}

// Refresh exchanges the current token for a new one. The stored user
// profile is kept when the backend does not resend it.
func (a *AuthAPI) Refresh(ctx context.Context) (*domain.AuthResponse, error) {
	resp, err := invoke[*domain.AuthResponse](ctx, &a.client, authRoutes.Refresh, call{})
	if err != nil {
		return nil, err
	}
	if resp != nil && len(resp.User) == 0 && a.store != nil {
		if prev, err := a.store.Get(ctx); err == nil {
			resp.User = prev.User
			if resp.RefreshToken == "" {
				resp.RefreshToken = prev.RefreshToken
			}
		}
	}
	if err := a.persist(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *AuthAPI) persist(ctx context.Context, resp *domain.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return apperrors.Rejected("authentication response carried no token")
	}
	if a.store == nil {
		return nil
	}
	cred := session.Credential{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		SavedAt:      a.now().UTC(),
	}
	if err := a.store.Set(ctx, cred); err != nil {
		return apperrors.Wrap(err, "save credential")
	}
	a.logger.InfoContext(ctx, "credential stored")
	return nil
}

// CurrentUser decodes the user profile saved at login without a network
// call. It returns nil when nothing is stored.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	if a.store == nil {
		return nil, nil
	}
	cred, err := a.store.Get(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(cred.User) == 0 {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal(cred.User, &u); err != nil {
		a.logger.WarnContext(ctx, "stored user profile unreadable", slog.String("error", err.Error()))
		return nil, nil
	}
	return &u, nil
}
