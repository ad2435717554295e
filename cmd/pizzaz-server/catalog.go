package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wagiedev/pizzaz-mcp-go/internal/assets"
	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
)

func newCatalogCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Resolve the widget catalog against the assets directory and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd, flags)
		},
	}
}

func runCatalog(cmd *cobra.Command, flags *rootFlags) error {
	defs := catalog.DefaultDefinitions()

	if flags.catalogFile != "" {
		var err error

		defs, err = catalog.LoadDefinitionsFile(flags.catalogFile)
		if err != nil {
			return err
		}
	}

	loader := assets.NewDirLoader(flags.assetsDir)

	cat, err := catalog.Load(loader, defs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tURI\tBYTES\tMATCHES")

	for i, item := range cat.Items() {
		asset := defs[i].Asset
		if asset == "" {
			asset = defs[i].ID
		}

		matches, err := loader.Candidates(asset)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", item.ID, item.TemplateURI, len(item.Body), len(matches))
	}

	return w.Flush()
}
