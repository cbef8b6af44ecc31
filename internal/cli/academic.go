package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/console"
)

func newAcademicCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "academic", Short: "Academic performance of counseling clients"}

	report := &cobra.Command{
		Use:   "report <client-id>",
		Short: "Risk and trend report from the cached SIS results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			res, err := deps.API.Academic.Cached(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rep, err := console.BuildAcademicReport(args[0], res, time.Now())
			if err != nil {
				return err
			}
			return e.render(cmd, rep, func(w io.Writer) { writeAcademicReport(w, rep) })
		},
	}

	cmd.AddCommand(report)
	return cmd
}

func writeAcademicReport(w io.Writer, rep console.AcademicReport) {
	risk := rep.Report.RiskAssessment
	trend := rep.Report.TrendAnalysis

	if s := rep.Student; s != nil {
		fmt.Fprintf(w, "Student:\t%s %s (%s)\n", s.FirstName, s.LastName, s.StudentID)
		if s.Programme != "" {
			fmt.Fprintf(w, "Programme:\t%s\n", s.Programme)
		}
	}
	fmt.Fprintf(w, "Risk level:\t%s\n", risk.RiskLevel)
	fmt.Fprintf(w, "GPA:\t%.2f\n", risk.AcademicSummary.GPA)
	fmt.Fprintf(w, "Pass rate:\t%.1f%%\n", risk.AcademicSummary.PassRate)
	fmt.Fprintf(w, "Failed courses:\t%d\n", risk.AcademicSummary.FailedCourses)
	for _, f := range risk.RiskFactors {
		fmt.Fprintf(w, "Risk factor:\t%s\n", f)
	}
	fmt.Fprintf(w, "Trend:\t%s\n", trend.Trend)
	if trend.Analysis != "" {
		fmt.Fprintf(w, "Analysis:\t%s\n", trend.Analysis)
	}
	semesters := make([]string, 0, len(trend.SemesterData))
	for k := range trend.SemesterData {
		semesters = append(semesters, k)
	}
	slices.Sort(semesters)
	for _, k := range semesters {
		fmt.Fprintf(w, "Semester %s:\t%.2f\n", k, trend.SemesterData[k])
	}
	for _, r := range rep.Report.Recommendations {
		fmt.Fprintf(w, "Recommendation:\t%s\n", r)
	}
}
