package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/leonkasovan/sffkit/internal/act"
	"github.com/leonkasovan/sffkit/internal/sff"
)

func newExtractCmd(gf *globalFlags) *cobra.Command {
	var outDir string
	var savePalettes bool

	cmd := &cobra.Command{
		Use:   "extract <file.sff>",
		Short: "Extract every sprite (and optionally every palette) from an SFF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(gf)
			if err != nil {
				return err
			}
			dir := outDir
			if dir == "" {
				dir = cfg.OutputDir
			}
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "extract: creating output directory")
			}

			path := args[0]
			catalog, err := sff.LoadFile(context.Background(), path, sff.Options{Logger: log})
			if err != nil {
				return errors.Wrap(err, "extract: loading sff")
			}

			basename := baseNameNoExt(path)
			ok, failures := catalog.ExportAllSpritesPNG(dir, basename)
			for _, f := range failures {
				log.Warnw("extract: sprite export failed", "group", f.Group, "item", f.Item, "error", f.Err)
			}
			fmt.Printf("extracted %d sprites from %s (%d failed) into %s\n", ok, path, len(failures), dir)

			if savePalettes {
				saved := 0
				for i, pal := range catalog.Palettes {
					name := fmt.Sprintf("%s_%d.act", basename, i)
					if err := writeAct(filepath.Join(dir, name), &pal); err != nil {
						log.Warnw("extract: palette export failed", "index", i, "error", err)
						continue
					}
					saved++
				}
				fmt.Printf("saved %d palettes as .act files\n", saved)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: config output_dir, else current directory)")
	cmd.Flags().BoolVar(&savePalettes, "pal", false, "also save each palette as a .act file")
	return cmd
}

func writeAct(path string, pal *sff.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating act file")
	}
	defer f.Close()
	return act.Save(f, pal)
}

func baseNameNoExt(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
