package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// MaxSize caps the page size a caller may request.
const MaxSize = 100

// Params holds 0-based pagination parameters as the backend expects them.
type Params struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page: 0,
		Size: 20,
	}
}

// FromRequest extracts pagination parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v >= 0 {
			p.Page = v
		}
	}

	if size := r.URL.Query().Get("size"); size != "" {
		if v, err := strconv.Atoi(size); err == nil && v > 0 && v <= MaxSize {
			p.Size = v
		}
	}

	return p
}

// Normalize replaces out-of-range values with defaults.
func (p Params) Normalize() Params {
	d := DefaultParams()
	if p.Page < 0 {
		p.Page = d.Page
	}
	if p.Size <= 0 || p.Size > MaxSize {
		p.Size = d.Size
	}
	return p
}

// Query encodes the parameters, merging them into extra when given.
func (p Params) Query(extra url.Values) url.Values {
	p = p.Normalize()
	q := url.Values{}
	for k, vs := range extra {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	return q
}

// Next returns the parameters for the following page.
func (p Params) Next() Params {
	p = p.Normalize()
	p.Page++
	return p
}
