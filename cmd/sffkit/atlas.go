package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	sffatlas "github.com/leonkasovan/sffkit/internal/atlas"
	"github.com/leonkasovan/sffkit/internal/sff"
)

func newAtlasCmd(gf *globalFlags) *cobra.Command {
	var outDir string
	var padding int
	var paddingSet bool

	cmd := &cobra.Command{
		Use:   "atlas <file.sff>",
		Short: "Pack an SFF file's default-palette sprites into a single atlas sheet",
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
				return errors.Wrap(err, "atlas: creating output directory")
			}
			if !paddingSet {
				padding = cfg.AtlasPadding
			}

			path := args[0]
			catalog, err := sff.LoadFile(context.Background(), path, sff.Options{Logger: log})
			if err != nil {
				return errors.Wrap(err, "atlas: loading sff")
			}

			plan, err := sffatlas.Pack(catalog, sffatlas.Options{
				Padding:      padding,
				DefaultGroup: cfg.DefaultPaletteGroup,
				DefaultItem:  cfg.DefaultPaletteItem,
			})
			if err != nil {
				return errors.Wrap(err, "atlas: packing")
			}

			basename := baseNameNoExt(path)
			pngPath := filepath.Join(dir, "sprite_atlas_"+basename+".png")
			tsvPath := filepath.Join(dir, "sprite_atlas_"+basename+".txt")

			if err := writeFile(pngPath, plan.WritePNG); err != nil {
				return errors.Wrap(err, "atlas: writing sheet png")
			}
			if err := writeFile(tsvPath, plan.WriteSidecar); err != nil {
				return errors.Wrap(err, "atlas: writing sidecar")
			}

			fmt.Printf("packed %d sprites into a %dx%d sheet: %s, %s\n",
				len(plan.Entries), plan.Width, plan.Height, pngPath, tsvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: config output_dir, else current directory)")
	cmd.Flags().IntVar(&padding, "padding", 0, "transparent padding, in pixels, around each packed sprite")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		paddingSet = cmd.Flags().Changed("padding")
	}
	return cmd
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
