package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/glyphkit/glyphkit/pkg/assets"
)

// baseName strips the directory and extension from a path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newIconsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Inspect and manage icons within a brand",
	}

	cmd.AddCommand(newIconsListCmd())
	cmd.AddCommand(newIconsAddCmd())
	cmd.AddCommand(newIconsRemoveCmd())

	return cmd
}

func newIconsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <brand>",
		Short: "List a brand's icons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			icons, err := store.ListIcons(args[0])
			if err != nil {
				return err
			}
			if len(icons) == 0 {
				pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("Brand %s holds no icons", args[0])
				return nil
			}

			rows := pterm.TableData{{"Icon", "Format", "Size"}}
			for _, ic := range icons {
				rows = append(rows, []string{ic.Name, ic.Format, fmt.Sprintf("%d", ic.Size)})
			}
			return pterm.DefaultTable.WithWriter(cmd.OutOrStdout()).WithHasHeader().WithData(rows).Render()
		},
	}
}

func newIconsAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <brand> <file>",
		Short: "Add an SVG file to a brand",
		Long: `add stores an SVG file under the named brand. The icon name defaults
to the file's base name and is normalized either way; adding a name that
already exists in the brand is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			iconName := name
			if iconName == "" {
				iconName = baseName(args[1])
			}

			icon, err := store.AddIcon(args[0], iconName, content, assets.FormatVector)
			if err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Added %s/%s (%d bytes)", icon.Brand, icon.Name, icon.Size)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Icon name (default: file base name)")

	return cmd
}

func newIconsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <brand> <name>",
		Short: "Remove an icon from a brand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			if err := store.RemoveIcon(args[0], args[1]); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Removed %s/%s", args[0], args[1])
			return nil
		},
	}
}
