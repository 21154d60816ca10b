package main

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/tokens"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Inspect the design-token registry",
	}

	cmd.AddCommand(newTokensVerifyCmd())

	return cmd
}

func newTokensVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check registry entries against their keys and stored assets",
		Long: `verify loads the token registry and checks that every entry's key
matches its brand and name fields, and that every entry's value points at
an existing asset. Key mismatches are fatal; missing assets are warnings,
since the asset store, not the registry, is the source of truth.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(assetsDir)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			registryPath := filepath.Join(cfg.AssetsRoot, tokens.DefaultFile)
			registry, err := tokens.Load(fs, registryPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := registry.Verify(fs, cfg.AssetsRoot)
			fatal := 0
			for _, p := range problems {
				if p.Fatal {
					fatal++
					pterm.Error.WithWriter(out).Printfln("%s: %s", p.Key, p.Message)
				} else {
					pterm.Warning.WithWriter(out).Printfln("%s: %s", p.Key, p.Message)
				}
			}

			if fatal > 0 {
				return fmt.Errorf("registry verification failed with %d fatal problem(s)", fatal)
			}
			pterm.Success.WithWriter(out).Printfln("Registry OK: %d entries, %d warning(s)", len(registry.Keys()), len(problems))
			return nil
		},
	}
}
