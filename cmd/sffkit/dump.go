package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/leonkasovan/sffkit/internal/sff"
)

func newDumpCmd(gf *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "dump <file.sff>",
		Short: "Write the sprite database (group, item, size, palette, codec) as TSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup(gf)
			if err != nil {
				return err
			}

			path := args[0]
			catalog, err := sff.LoadFile(context.Background(), path, sff.Options{Logger: log})
			if err != nil {
				return errors.Wrap(err, "dump: loading sff")
			}

			if outDir == "" {
				return catalog.DumpDatabase(os.Stdout)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrap(err, "dump: creating output directory")
			}
			outPath := filepath.Join(outDir, "sprite_database_"+baseNameNoExt(path)+".txt")
			f, err := os.Create(outPath)
			if err != nil {
				return errors.Wrap(err, "dump: creating output file")
			}
			defer f.Close()
			return catalog.DumpDatabase(f)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "write sprite_database_<basename>.txt into this directory instead of printing to stdout")
	return cmd
}
