package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
)

func seedCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the starter projects into an empty catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.store()
			existing, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(existing) > 0 && !force {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s catalog already has %d projects, use --force to overwrite\n",
					color.YellowString("!"), len(existing))
				return nil
			}
			seed := catalog.SeedProjects()
			if err := store.Replace(cmd.Context(), seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s seeded %d projects\n", color.GreenString("✓"), len(seed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty catalog")
	return cmd
}
