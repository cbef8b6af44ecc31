package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/app"
	"github.com/chrimztech/unza-counseling-console/internal/consent"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

// consentView is the status output, with the signature history on request.
type consentView struct {
	consent.Status
	History []domain.UserConsent `json:"history,omitempty"`
}

func newConsentCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "consent", Short: "Check and sign the counseling consent form"}

	var history bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether a consent signature is outstanding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, deps, err := e.gate(cmd)
			if err != nil {
				return err
			}
			st, err := gate.Check(cmd.Context())
			if err != nil {
				return err
			}
			view := consentView{Status: st}
			if history {
				view.History = deps.API.Consent.History(cmd.Context())
			}
			return e.render(cmd, view, func(w io.Writer) {
				fmt.Fprintf(w, "Status:\t%s\n", st.Phase)
				if st.Form != nil {
					fmt.Fprintf(w, "Form:\t%s (version %s)\n", st.Form.Title, st.Form.Version)
					fmt.Fprintln(w, "Run `counselctl consent sign` to review and sign it.")
				}
				for _, h := range view.History {
					fmt.Fprintf(w, "Signed:\t%s v%s at %s\n", h.ConsentFormTitle, h.ConsentFormVersion, h.ConsentDate)
				}
			})
		},
	}
	status.Flags().BoolVar(&history, "history", false, "include past signatures")

	var yes bool
	sign := &cobra.Command{
		Use:   "sign",
		Short: "Review and sign the outstanding consent form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, _, err := e.gate(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			st, err := gate.Check(cmd.Context())
			if err != nil {
				return err
			}
			if st.Phase == consent.PhaseAllowed {
				fmt.Fprintln(out, "No consent signature is outstanding.")
				return nil
			}

			fmt.Fprintf(out, "%s (version %s)\n\n%s\n\n", st.Form.Title, st.Form.Version, st.Form.Content)
			agreed := yes
			if !agreed {
				fmt.Fprint(out, "Do you agree to the terms above? [y/N]: ")
				answer, err := e.readLine(cmd)
				if err != nil {
					return err
				}
				answer = strings.ToLower(strings.TrimSpace(answer))
				agreed = answer == "y" || answer == "yes"
			}

			if err := gate.Submit(cmd.Context(), agreed); err != nil {
				return err
			}
			fmt.Fprintln(out, "Consent signed. Thank you.")
			return nil
		},
	}
	sign.Flags().BoolVarP(&yes, "yes", "y", false, "agree without prompting")

	cmd.AddCommand(status, sign)
	return cmd
}

func (e *env) gate(cmd *cobra.Command) (*consent.Gate, *app.Deps, error) {
	deps, err := e.load(cmd)
	if err != nil {
		return nil, nil, err
	}
	gate := consent.NewGate(deps.API.Consent, consent.Options{
		UserAgent: app.ServiceName + "/" + e.version,
		Audit:     deps.Audit,
		Logger:    e.logger,
		OnConsentRequired: func() {
			e.logger.Warn("consent outstanding but the backend has no active form")
		},
	})
	return gate, deps, nil
}
