// Package cli implements the counselctl command tree.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/app"
	"github.com/chrimztech/unza-counseling-console/internal/config"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
	"github.com/chrimztech/unza-counseling-console/pkg/httpclient"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// env carries the persistent flags and the lazily built dependencies of
// one invocation.
type env struct {
	apiURL    string
	profile   string
	logLevel  string
	output    string
	ephemeral bool
	version   string
	buildDate string

	cfg    *config.Config
	logger *slog.Logger
	deps   *app.Deps
	in     *bufio.Reader
}

// Execute runs counselctl with the process arguments. Dependencies built
// by the command are closed even when it fails.
func Execute(ctx context.Context, version, buildDate string) error {
	e := &env{version: version, buildDate: buildDate}
	return execute(ctx, e, newRootCmd(e))
}

func execute(ctx context.Context, e *env, root *cobra.Command) (err error) {
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

// NewRootCmd builds the counselctl command tree.
func NewRootCmd(version, buildDate string) *cobra.Command {
	return newRootCmd(&env{version: version, buildDate: buildDate})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "counselctl",
		Short:         "Operator console for the UNZA counseling backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if e.output != outputTable && e.output != outputJSON {
				return fmt.Errorf("--output must be %s or %s", outputTable, outputJSON)
			}
			return nil
		},
		// Skipped by cobra when the command fails; execute closes then.
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.apiURL, "api-url", "", "backend base URL (default $COUNSELING_API_URL)")
	flags.StringVar(&e.profile, "profile", "", "credential profile (default $COUNSELCTL_PROFILE)")
	flags.BoolVar(&e.ephemeral, "ephemeral", false, "keep credentials in memory only")
	flags.StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVarP(&e.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(newVersionCmd(e))
	root.AddCommand(newLoginCmd(e))
	root.AddCommand(newLogoutCmd(e))
	root.AddCommand(newWhoamiCmd(e))
	root.AddCommand(newResourcesCmd(e))
	root.AddCommand(newConsentCmd(e))
	root.AddCommand(newAcademicCmd(e))
	root.AddCommand(newExportCmd(e))
	root.AddCommand(newNotificationsCmd(e))
	root.AddCommand(newAuditCmd(e))
	root.AddCommand(newServeCmd(e))
	return root
}

// overrides maps the persistent flags onto configuration variables.
// Commands log at warn unless asked otherwise.
func (e *env) overrides() map[string]string {
	o := map[string]string{
		"COUNSELING_API_URL": e.apiURL,
		"COUNSELCTL_PROFILE": e.profile,
		"LOG_LEVEL":          e.logLevel,
	}
	if e.logLevel == "" && os.Getenv("LOG_LEVEL") == "" {
		o["LOG_LEVEL"] = "warn"
	}
	if e.ephemeral {
		o["CREDENTIAL_BACKEND"] = config.CredentialBackendMemory
	}
	return o
}

func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.LoadWithOverrides(e.overrides())
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

// load builds the credential store, backend client and audit recorder on
// first use.
func (e *env) load(cmd *cobra.Command) (*app.Deps, error) {
	if e.deps != nil {
		return e.deps, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	e.logger = logger.NewText(app.ServiceName, cfg.LogLevel, cmd.ErrOrStderr())

	deps, err := app.NewDeps(cmd.Context(), cfg, e.logger, app.Options{Version: e.version})
	if err != nil {
		return nil, err
	}
	e.deps = deps
	return deps, nil
}

func (e *env) close() error {
	if e.deps == nil {
		return nil
	}
	err := e.deps.Close()
	e.deps = nil
	return err
}

// readLine reads one line from the command input. A single reader is kept
// so consecutive prompts do not lose buffered input.
func (e *env) readLine(cmd *cobra.Command) (string, error) {
	if e.in == nil {
		e.in = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Describe turns a command error into the line shown to the operator.
func Describe(err error) string {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized:
		return "session expired; run `counselctl login`"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "not signed in; run `counselctl login`"
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return "the counseling backend is failing; requests are paused, try again shortly"
	case errors.Is(err, apperrors.ErrNetwork):
		return "cannot reach the counseling backend: " + err.Error()
	}
	return apperrors.UserMessage(err, err.Error())
}
