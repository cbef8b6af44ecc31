package api

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

// Export formats accepted by the backend.
const (
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
	FormatExcel = "excel"
)

// exportQuery builds the ?format= query. An empty format means csv.
func exportQuery(format string, allowed ...string) (url.Values, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if !slices.Contains(allowed, format) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported export format %q", format),
			map[string]string{"format": "must be one of: " + strings.Join(allowed, " ")},
		)
	}
	return url.Values{"format": {format}}, nil
}
