package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/config"
)

func newBrandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "Inspect and manage brands in the asset store",
	}

	cmd.AddCommand(newBrandsListCmd())
	cmd.AddCommand(newBrandsCreateCmd())
	cmd.AddCommand(newBrandsRemoveCmd())

	return cmd
}

func newBrandsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List brands and their icon counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			brands, err := store.ListBrands()
			if err != nil {
				return err
			}
			if len(brands) == 0 {
				pterm.Info.WithWriter(cmd.OutOrStdout()).Println("No brands in the asset store")
				return nil
			}

			rows := pterm.TableData{{"Brand", "Icons", "Path"}}
			for _, b := range brands {
				rows = append(rows, []string{b.Name, fmt.Sprintf("%d", b.IconCount), b.Path})
			}
			return pterm.DefaultTable.WithWriter(cmd.OutOrStdout()).WithHasHeader().WithData(rows).Render()
		},
	}
}

func newBrandsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			brand, err := store.CreateBrand(args[0])
			if err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Created brand %s at %s", brand.Name, brand.Path)
			return nil
		},
	}
}

func newBrandsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a brand and all of its icons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			if err := store.RemoveBrand(args[0]); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Removed brand %s", args[0])
			return nil
		},
	}
}

// openStore builds the asset store from the effective configuration.
func openStore() (*assets.Store, error) {
	cfg, err := config.Load(assetsDir)
	if err != nil {
		return nil, err
	}
	return assets.New(afero.NewOsFs(), cfg.AssetsRoot), nil
}
