package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

func newResourcesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "resources", Short: "Browse the resource library"}

	var resourceType, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List resources, optionally by type or category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			var items []domain.Resource
			switch {
			case resourceType != "":
				items, err = deps.API.Resources.ByType(cmd.Context(), resourceType)
			case category != "":
				items, err = deps.API.Resources.ByCategory(cmd.Context(), category)
			default:
				items, err = deps.API.Resources.All(cmd.Context())
			}
			if err != nil {
				return err
			}
			return e.renderResources(cmd, items)
		},
	}
	list.Flags().StringVar(&resourceType, "type", "", "resource type, e.g. ARTICLE or VIDEO")
	list.Flags().StringVar(&category, "category", "", "resource category")
	list.MarkFlagsMutuallyExclusive("type", "category")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles and descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			items, err := deps.API.Resources.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return e.renderResources(cmd, items)
		},
	}

	featured := &cobra.Command{
		Use:   "featured",
		Short: "List featured resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			items, err := deps.API.Resources.Featured(cmd.Context())
			if err != nil {
				return err
			}
			return e.renderResources(cmd, items)
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List resource categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			cats, err := deps.API.Resources.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return e.render(cmd, cats, func(w io.Writer) {
				for _, c := range cats {
					fmt.Fprintln(w, c)
				}
			})
		},
	}

	var outPath string
	download := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a resource file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			dl, err := deps.API.Resources.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return saveDownload(cmd, dl, outPath)
		},
	}
	download.Flags().StringVarP(&outPath, "file", "f", "", `destination path; "-" writes to stdout`)

	cmd.AddCommand(list, search, featured, categories, download)
	return cmd
}

func (e *env) renderResources(cmd *cobra.Command, items []domain.Resource) error {
	return e.render(cmd, items, func(w io.Writer) {
		if len(items) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return
		}
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tCATEGORY\tFEATURED")
		for _, r := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Type, r.Category, yesNo(r.Featured))
		}
	})
}
