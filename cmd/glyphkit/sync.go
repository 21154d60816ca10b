package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/figma"
	"github.com/glyphkit/glyphkit/pkg/syncer"
	"github.com/glyphkit/glyphkit/pkg/tokens"
	"github.com/glyphkit/glyphkit/pkg/ui"
)

func newSyncCmd() *cobra.Command {
	var (
		dryRun  bool
		fileKey string
		token   string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local assets and tokens with the remote design file",
		Long: `sync diffs the remote design file's pages and components against the
local asset store, downloads added and updated icons, removes icons that
disappeared remotely, and rebuilds the token registry from the remote
listing. With --dry-run the identical classification is reported without
touching the store or the registry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(assetsDir)
			if err != nil {
				return err
			}
			if fileKey != "" {
				cfg.FileKey = fileKey
			}
			if token != "" {
				cfg.AccessToken = token
			}

			fs := afero.NewOsFs()
			store := assets.New(fs, cfg.AssetsRoot)
			client := figma.NewClient(cfg)
			registryPath := filepath.Join(cfg.AssetsRoot, tokens.DefaultFile)

			report, err := syncer.New(cfg, store, client, fs, registryPath).
				Run(cmd.Context(), syncer.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			ui.RenderSyncReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("sync finished with %d item errors", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify and report without mutating assets or tokens")
	cmd.Flags().StringVar(&fileKey, "file-key", "", "Remote file key override")
	cmd.Flags().StringVar(&token, "token", "", "Remote access token override")

	return cmd
}
