package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Export or validate the portfolio catalog",
	}
	cmd.AddCommand(newContentExportCmd())
	cmd.AddCommand(newContentCheckCmd())
	return cmd
}

func newContentExportCmd() *cobra.Command {
	var output string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded catalog for customization",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := content.DefaultYAML()
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if !overwrite {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("content already exists at %s", output)
				}
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("content wrote", "path", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "target file (default stdout)")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing file")
	return cmd
}

func newContentCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a catalog (the embedded one when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat  *content.Catalog
				err  error
				name = "embedded"
			)
			if len(args) == 1 {
				name = args[0]
				cat, err = content.LoadFile(name)
			} else {
				cat, err = content.Default()
			}
			if err != nil {
				return err
			}
			runnable := 0
			for _, dir := range schema.Dirs() {
				runnable += len(cat.Directory(dir).Runnable)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d commands, %d runnable files)\n", name, len(cat.Commands()), runnable)
			return err
		},
	}
}
