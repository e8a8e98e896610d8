package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dlcf-orozo/orozo-dp/internal/dp"
	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
	"github.com/dlcf-orozo/orozo-dp/internal/templates"
	"github.com/dlcf-orozo/orozo-dp/internal/util"
)

// RenderCmd writes a display picture to disk.
var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a display picture to a PNG file",
	Long: `Render a display picture and write it to the output directory.

Examples:
  # Export at full resolution
  dpgen render --name "Grace Okafor" --branch Abuja --photo me.jpg

  # Gold template, square frame, 1x preview only
  dpgen render --name Tunde --template 2 --frame square --preview --out ./previews`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderName     string
	renderBranch   string
	renderTemplate int
	renderFrame    string
	renderPhoto    string
	renderQR       string
	renderOut      string
	renderPreview  bool
)

func init() {
	RenderCmd.Flags().StringVar(&renderName, "name", "", "Full name")
	RenderCmd.Flags().StringVar(&renderBranch, "branch", "", "Church branch")
	RenderCmd.Flags().IntVarP(&renderTemplate, "template", "t", 0, "Template index (see `dpgen templates`)")
	RenderCmd.Flags().StringVarP(&renderFrame, "frame", "f", string(imagepkg.FrameCircle), "Frame style: circle or square")
	RenderCmd.Flags().StringVarP(&renderPhoto, "photo", "p", "", "Photo file")
	RenderCmd.Flags().StringVar(&renderQR, "qr", "", "Text for an optional QR badge")
	RenderCmd.Flags().StringVarP(&renderOut, "out", "o", ".", "Output directory")
	RenderCmd.Flags().BoolVar(&renderPreview, "preview", false, "Write the 1x preview instead of the 2x export")
}

func runRender(c *cobra.Command, _ []string) error {
	reg, err := templates.LoadFile(cfg.TemplatesFile)
	if err != nil {
		return err
	}
	comp := dp.NewCompositor(reg, cfg.CompositorOptions())
	s, err := dp.NewSession("cli", comp, dp.Prefill{FullName: renderName, ChurchBranch: renderBranch})
	if err != nil {
		return err
	}

	frame := imagepkg.Frame(renderFrame)
	if _, err := s.Apply(dp.Patch{Template: &renderTemplate, Frame: &frame, QRText: &renderQR}); err != nil {
		return err
	}

	if renderPhoto != "" {
		f, err := os.Open(renderPhoto)
		if err != nil {
			return err
		}
		defer f.Close()
		photo, err := imagepkg.NewLoader(cfg.MaxUploadBytes, cfg.FetchTimeout).LoadImage(f)
		if err != nil {
			return fmt.Errorf("%s: %w", renderPhoto, err)
		}
		s.SetPhoto(photo)
	}

	var name string
	var data []byte
	if renderPreview {
		data, err = s.Preview()
		name = cfg.FilePrefix + "-preview.png"
	} else {
		var d *dp.Download
		d, err = s.Download(context.Background())
		if d != nil {
			name, data = d.Filename, d.PNG
		}
	}
	if err != nil {
		return err
	}

	path, err := util.WriteFile(renderOut, name, data)
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("written")
	fmt.Fprintln(c.OutOrStdout(), path)
	return nil
}
