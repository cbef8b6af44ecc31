package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/api"
)

// render writes v as indented JSON or, for table output, through table.
func (e *env) render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if e.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

// saveDownload writes dl to path, to its own filename in the working
// directory when path is empty, or to standard output when path is "-".
func saveDownload(cmd *cobra.Command, dl *api.Download, path string) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(dl.Data)
		return err
	}
	if path == "" {
		path = filepath.Base(dl.FileName)
	}
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, len(dl.Data))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
