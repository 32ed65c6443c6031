package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/internal/fonts"
	"pkt.systems/termpart/schema"
)

func newFontsCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect fonts",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.AddCommand(newFontsListCmd(&cfgPath))
	return cmd
}

func newFontsListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List preset fonts and whether the font directories provide them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			catalog, err := fonts.LoadDirCatalog(cmd.Context(), cfg.Fonts.Dirs...)
			if err != nil {
				return err
			}
			return writeFonts(cmd.OutOrStdout(), fonts.NewResolver(catalog))
		},
	}
}

func writeFonts(w io.Writer, resolver *fonts.Resolver) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INDEX\tFONT\tAVAILABLE")
	for i, preset := range fonts.Presets() {
		desc := preset.Descriptor()
		available := "yes"
		if _, err := resolver.Resolve(schema.PresetFont(i), schema.FontDescriptor{}); err != nil {
			available = "no"
		}
		marker := ""
		if i == schema.DefaultFontIndex {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s%s\t%s\n", i, desc.Name(), marker, available)
	}
	return tw.Flush()
}
