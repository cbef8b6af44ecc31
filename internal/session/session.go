// Package session persists the operator's credential between invocations.
// Every store is last-write-wins; no cross-process locking is attempted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

// Credential is the bearer token plus the user profile returned at login.
type Credential struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
	SavedAt      time.Time       `json:"savedAt"`
}

// Store is the injectable credential store handed to the HTTP client.
// Get returns an error wrapping errors.ErrNotFound when nothing is stored.
type Store interface {
	Get(ctx context.Context) (*Credential, error)
	Set(ctx context.Context, cred Credential) error
	Clear(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

// tokenOf adapts a Get result to the Token contract: absence is not an error.
func tokenOf(cred *Credential, err error) (string, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

func notStored(profile string) error {
	return apperrors.NotFound("credential", profile)
}
