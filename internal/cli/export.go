package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/api"
)

// Export targets.
const (
	exportAppointments    = "appointments"
	exportUsers           = "users"
	exportRiskAssessments = "risk-assessments"
	exportAnalytics       = "analytics"
)

func newExportCmd(e *env) *cobra.Command {
	var format, from, to, outPath string
	cmd := &cobra.Command{
		Use:       "export <appointments|users|risk-assessments|analytics>",
		Short:     "Download a report export",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{exportAppointments, exportUsers, exportRiskAssessments, exportAnalytics},
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			if (from != "" || to != "") && args[0] != exportAppointments {
				return fmt.Errorf("--from and --to only apply to %s", exportAppointments)
			}

			ctx := cmd.Context()
			var dl *api.Download
			switch args[0] {
			case exportAppointments:
				dl, err = deps.API.Appointments.Export(ctx, format, from, to)
			case exportUsers:
				dl, err = deps.API.Users.Export(ctx, format)
			case exportRiskAssessments:
				dl, err = deps.API.RiskAssessments.Export(ctx, format)
			case exportAnalytics:
				dl, err = deps.API.Analytics.Export(ctx, format)
			}
			if err != nil {
				return err
			}
			return saveDownload(cmd, dl, outPath)
		},
	}
	cmd.Flags().StringVar(&format, "format", api.FormatCSV, "csv, pdf or excel (availability depends on the report)")
	cmd.Flags().StringVar(&from, "from", "", "appointments starting on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "appointments starting on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "file", "f", "", `destination path; "-" writes to stdout`)
	return cmd
}
