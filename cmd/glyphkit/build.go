package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/build"
	"github.com/glyphkit/glyphkit/pkg/config"
	"github.com/glyphkit/glyphkit/pkg/ui"
)

func newBuildCmd() *cobra.Command {
	var (
		platform string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "build [brand...]",
		Short: "Render brands into publishable artifact formats",
		Long: `build renders each selected brand through the stage pipeline: SVG
modules, PNG rasters, an icon font with stylesheet, a web component module,
and a package descriptor. Without arguments every brand holding at least
one icon is built. Brands build concurrently; a failure in one brand never
stops the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(assetsDir)
			if err != nil {
				return err
			}

			plat, err := build.ParsePlatform(platform)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			store := assets.New(fs, cfg.AssetsRoot)
			pipeline := build.New(cfg, store, fs, nil)

			report, err := pipeline.Run(cmd.Context(), build.Options{
				Brands:     args,
				Platform:   plat,
				OutputRoot: out,
			})
			if err != nil {
				return err
			}

			ui.RenderBuildReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("%d of %d brands failed to build", report.Failed, report.Built+report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "all", "Artifact selection: all, vector, raster, font, component")
	cmd.Flags().StringVar(&out, "out", "", "Output root directory (default from config)")

	return cmd
}
