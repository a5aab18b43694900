package cli

import (
	"github.com/spf13/cobra"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/envutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

const defaultCatalogPath = "data/projects.json"

type options struct {
	catalogPath string
	openStore   func(path string) catalog.Store
}

// RootCmd builds the portfolioctl command tree.
func RootCmd() *cobra.Command {
	return newRootCmd(func(path string) catalog.Store {
		return catalog.NewFileStore(path, logger.NewNop())
	})
}

func newRootCmd(open func(path string) catalog.Store) *cobra.Command {
	opts := &options{openStore: open}

	cmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Manage the portfolio catalog from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog",
		envutil.String("CATALOG_PATH", defaultCatalogPath, nil),
		"path to the catalog JSON document (env CATALOG_PATH)")

	cmd.AddCommand(projectsCmd(opts))
	cmd.AddCommand(seedCmd(opts))
	cmd.AddCommand(hashPasswordCmd())
	return cmd
}

func (o *options) store() catalog.Store { return o.openStore(o.catalogPath) }
