package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/internal/version"
	"github.com/glyphkit/glyphkit/pkg/logging"
)

var (
	verbosity int
	assetsDir string

	rootCmd = &cobra.Command{
		Use:   "glyphkit",
		Short: "Brand-aware icon asset pipeline",
		Long: `glyphkit pulls icon components from a remote design file, stores them as
brand-scoped SVG assets, keeps a design-token registry in step, and renders
each brand into publishable artifact formats (SVG modules, PNG rasters,
icon fonts, web components).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "", "Assets root directory (default from config/environment)")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newBrandsCmd())
	rootCmd.AddCommand(newIconsCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("glyphkit version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
