package main

import (
	"fmt"

	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-smaa <dir>",
		Short: "Write the generated SMAA lookup textures as PNG files",
		Long:  "Writes " + postprocess.AreaFileName + " and " + postprocess.SearchFileName + " into dir. Pass the directory back with --smaa-dir to load them instead of generating them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := postprocess.ExportLookupTextures(args[0])
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
