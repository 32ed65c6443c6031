package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pkt.systems/termpart/internal/appconfig"
	"pkt.systems/termpart/internal/schemas"
)

func newSchemasCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Inspect color schemas",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.AddCommand(newSchemasListCmd(&cfgPath))
	return cmd
}

func newSchemasListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			collection := schemas.NewCollection(cmd.Context(), cfg.Schemas.Dirs...)
			if _, err := collection.Check(); err != nil {
				return err
			}
			return writeSchemas(cmd.OutOrStdout(), collection.All())
		},
	}
}

func writeSchemas(w io.Writer, list []*schemas.ColorSchema) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tPATH\tIMAGE")
	for _, s := range list {
		path := s.Path
		if path == "" {
			path = "(built-in)"
		}
		image := "-"
		if s.ImagePath != "" {
			image = s.ImagePath
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Title, path, image)
	}
	return tw.Flush()
}
