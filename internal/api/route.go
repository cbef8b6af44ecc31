// Package api wraps every backend endpoint behind a typed method. Each
// resource declares its routes in one table so the response shape of every
// call (bare, enveloped or binary) and its failure policy are explicit.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httpclient"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
	"github.com/chrimztech/unza-counseling-console/pkg/validator"
)

// UnwrapMode says where the payload sits in a successful response.
type UnwrapMode int

const (
	// Bare responses carry the payload as the whole body.
	Bare UnwrapMode = iota
	// Enveloped responses wrap the payload as {success, data, message}.
	Enveloped
	// Binary responses are file downloads.
	Binary
)

func (m UnwrapMode) String() string {
	switch m {
	case Bare:
		return "bare"
	case Enveloped:
		return "enveloped"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// FailurePolicy says what a wrapper does when the call fails.
type FailurePolicy int

const (
	// Propagate returns the error to the caller.
	Propagate FailurePolicy = iota
	// Fallback logs the error and returns a fixed default value.
	Fallback
)

// Route describes one backend endpoint. Path is relative to the client's
// base URL and may contain {name} placeholders filled positionally.
type Route struct {
	Name    string
	Method  string
	Path    string
	Unwrap  UnwrapMode
	Failure FailurePolicy
}

// Expand fills the placeholders of r.Path with path-escaped params. A
// missing or blank parameter is a validation error.
func (r Route) Expand(params ...string) (string, error) {
	var b strings.Builder
	rest := r.Path
	i := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("route %s: unterminated placeholder in %q", r.Name, r.Path)
		}
		name := rest[open+1 : open+end]
		if i >= len(params) || strings.TrimSpace(params[i]) == "" {
			return "", apperrors.NewValidationError(
				fmt.Sprintf("%s is required", name),
				map[string]string{name: "is required"},
			)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(params[i]))
		rest = rest[open+end+1:]
		i++
	}
	if i != len(params) {
		return "", fmt.Errorf("route %s: got %d path params, want %d", r.Name, len(params), i)
	}
	return b.String(), nil
}

// Envelope is the {success, data, message} wrapper used by most of the v1
// controllers. Data is only read when Success is true.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// Sender executes a request against the backend; *httpclient.Client
// satisfies it.
type Sender interface {
	Send(ctx context.Context, r httpclient.Request) (*httpclient.Response, error)
}

// call carries the per-invocation inputs of a route.
type call struct {
	params []string
	query  url.Values
	body   any
}

func withParams(params ...string) call { return call{params: params} }

// client is the shared plumbing embedded in every resource wrapper.
type client struct {
	sender Sender
	logger *slog.Logger
}

func (c *client) send(ctx context.Context, rt Route, in call) (*httpclient.Response, error) {
	path, err := rt.Expand(in.params...)
	if err != nil {
		return nil, err
	}
	if in.body != nil {
		if err := validator.Validate(in.body); err != nil {
			return nil, err
		}
	}

	req := httpclient.Request{
		Name:   rt.Name,
		Method: rt.Method,
		Path:   path,
		Query:  in.query,
		Body:   in.body,
	}
	if rt.Unwrap == Binary {
		req.Header = http.Header{"Accept": {"*/*"}}
	}
	return c.sender.Send(ctx, req)
}

// invoke runs rt and decodes its payload into T.
func invoke[T any](ctx context.Context, c *client, rt Route, in call) (T, error) {
	var zero T
	return invokeOr(ctx, c, rt, in, zero)
}

// invokeOr is invoke with the value returned when a Fallback route fails.
// Caller cancellation is never masked by the fallback.
func invokeOr[T any](ctx context.Context, c *client, rt Route, in call, fallback T) (T, error) {
	v, err := roundTrip[T](ctx, c, rt, in)
	if err == nil {
		return v, nil
	}
	if rt.Failure == Fallback && !errors.Is(err, context.Canceled) {
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "call failed, using fallback",
			slog.String("call", rt.Name),
			slog.String("error", err.Error()),
		)
		return fallback, nil
	}
	return v, err
}

// exec runs rt and discards any payload.
func exec(ctx context.Context, c *client, rt Route, in call) error {
	_, err := invoke[json.RawMessage](ctx, c, rt, in)
	return err
}

func roundTrip[T any](ctx context.Context, c *client, rt Route, in call) (T, error) {
	var out T
	if rt.Unwrap == Binary {
		return out, fmt.Errorf("route %s returns binary content", rt.Name)
	}
	resp, err := c.send(ctx, rt, in)
	if err != nil {
		return out, err
	}
	return unwrap[T](rt, resp.Body)
}

func unwrap[T any](rt Route, body []byte) (T, error) {
	var out T
	if rt.Unwrap == Enveloped {
		var env Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return out, fmt.Errorf("decode %s envelope: %w", rt.Name, err)
		}
		if !env.Success {
			return out, apperrors.Rejected(env.Message)
		}
		body = env.Data
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", rt.Name, err)
	}
	return out, nil
}
