package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/config"
)

func newGenConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Write a project config file with the effective settings",
		Long: `gen-config writes the effective configuration as a TOML project file.
Credentials are never written: the file key and access token stay in the
environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(assetsDir)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = ".glyphkit.toml"
			}

			if err := config.Generate(afero.NewOsFs(), cfg, path); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path (default .glyphkit.toml)")

	return cmd
}
