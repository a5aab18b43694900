package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
)

func projectsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List, export and import catalog projects",
	}
	cmd.AddCommand(projectsListCmd(opts))
	cmd.AddCommand(projectsExportCmd(opts))
	cmd.AddCommand(projectsImportCmd(opts))
	return cmd
}

func projectsListCmd(opts *options) *cobra.Command {
	var (
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := opts.store().List(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" {
				want, err := project.ParseCategory(category)
				if err != nil {
					return err
				}
				filtered := recs[:0]
				for _, r := range recs {
					if r.Category == want {
						filtered = append(filtered, r)
					}
				}
				recs = filtered
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, "(no projects)")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tTITLE\tTAGS")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					color.New(color.FgCyan).Sprint(r.ID),
					r.Category,
					r.Title,
					strings.Join(r.Tags, ", "),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show projects in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func projectsExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the catalog document to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := opts.store().List(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := catalog.Encode(recs)
			if err != nil {
				return err
			}
			if args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s exported %d projects to %s\n", color.GreenString("✓"), len(recs), args[0])
			return nil
		},
	}
}

func projectsImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the catalog with a validated document",
		Long: `Reads a JSON array of projects, validates every record and replaces the
catalog in one atomic write. Duplicate or missing ids abort the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			recs, err := catalog.Decode(raw)
			if err != nil {
				return err
			}
			var errs []error
			for i, r := range recs {
				if err := r.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("record %d (%s): %w", i, r.ID, err))
				}
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			if err := opts.store().Replace(cmd.Context(), recs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s imported %d projects\n", color.GreenString("✓"), len(recs))
			return nil
		},
	}
}
